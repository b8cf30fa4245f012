package recognition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrMalformed marks a payload that is not a recognizable result
var ErrMalformed = errors.New("malformed recognition payload")

// RemoteError is an error reported in-band by the recognizer
type RemoteError struct {
	Code string
}

func (e *RemoteError) Error() string {
	return "recognizer error: " + e.Code
}

// Benign reports codes that end an utterance without failing the session
func (e *RemoteError) Benign() bool {
	switch e.Code {
	case "no-speech", "aborted":
		return true
	}
	return false
}

// Unwrap maps permission and device codes to ErrUnavailable
func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case "not-allowed", "service-not-allowed", "audio-capture", "language-not-supported":
		return ErrUnavailable
	}
	return nil
}

// Decode parses one recognition payload
// Accepted shapes:
//
//	{"text":"red car","is_final":true,"alternatives":["red car","rad car"]}
//	{"final":true,"alternatives":[{"transcript":"red car","confidence":0.9}]}
//	{"error":"network"}
func Decode(data []byte, source string) (Hypothesis, error) {
	if !gjson.ValidBytes(data) {
		return Hypothesis{}, ErrMalformed
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Hypothesis{}, ErrMalformed
	}

	if code := root.Get("error"); code.Exists() && code.String() != "" {
		return Hypothesis{}, &RemoteError{Code: code.String()}
	}

	h := Hypothesis{Source: source}
	if src := root.Get("source"); src.Exists() && src.String() != "" {
		h.Source = src.String()
	}

	switch {
	case root.Get("is_final").Exists():
		h.Final = root.Get("is_final").Bool()
	case root.Get("isFinal").Exists():
		h.Final = root.Get("isFinal").Bool()
	default:
		h.Final = root.Get("final").Bool()
	}

	root.Get("alternatives").ForEach(func(_, alt gjson.Result) bool {
		text := alt.String()
		if alt.IsObject() {
			text = alt.Get("transcript").String()
		}
		h.Alternatives = append(h.Alternatives, text)
		return true
	})

	h.Text = root.Get("text").String()
	if h.Text == "" && len(h.Alternatives) > 0 {
		h.Text = h.Alternatives[0]
	}
	if h.Text == "" && len(h.Alternatives) == 0 && !root.Get("text").Exists() {
		return Hypothesis{}, fmt.Errorf("%w: no text or alternatives", ErrMalformed)
	}
	return h, nil
}

// StartFrame builds the control message asking a recognizer to begin a session
func StartFrame(sessionID, lang string, maxAlternatives int) []byte {
	out := []byte(`{"type":"start"}`)
	out, _ = sjson.SetBytes(out, "session_id", sessionID)
	out, _ = sjson.SetBytes(out, "lang", lang)
	out, _ = sjson.SetBytes(out, "continuous", true)
	out, _ = sjson.SetBytes(out, "interim_results", true)
	out, _ = sjson.SetBytes(out, "max_alternatives", maxAlternatives)
	return out
}

// StopFrame builds the control message ending a session
func StopFrame() []byte {
	return []byte(`{"type":"stop"}`)
}

// FrameType returns the "type" field of a control message, lowercased
func FrameType(data []byte) string {
	return strings.ToLower(gjson.GetBytes(data, "type").String())
}
