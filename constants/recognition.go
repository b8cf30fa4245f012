package constants

import "time"

// Matching Constants
const (
	// FuzzyRatio bounds len(a)/len(b) or len(b)/len(a) for fuzzy hits; either direction qualifies
	FuzzyRatio = 1.3

	// MinFuzzyLength is the minimum length of both strings for a fuzzy hit
	MinFuzzyLength = 2

	// MinTokenLength filters tokens tried after the last word and in alternatives
	MinTokenLength = 2

	// MaxAlternatives bounds the ranked alternatives examined, primary included
	MaxAlternatives = 5
)

// Recognition Stream Constants
const (
	// RestartDelay is the first delay before relistening after a stream failure
	RestartDelay = 300 * time.Millisecond

	// RestartMaxDelay caps the doubling restart delay
	RestartMaxDelay = 5 * time.Second

	// MaxRestarts is the consecutive failure budget, 0 = retry forever
	MaxRestarts = 0

	// StreamBufferSize is the per-subscription result buffer
	StreamBufferSize = 32

	// RecognitionLang is the language requested from speech bridges
	RecognitionLang = "en-US"
)

// Transport Constants
const (
	WSReadLimit     = 1 << 20
	WSPongWait      = 60 * time.Second
	WSPingPeriod    = 25 * time.Second
	WSWriteWait     = 10 * time.Second
	MQTTConnectWait = 5 * time.Second
	MQTTQuiesceMs   = 250
)
