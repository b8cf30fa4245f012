package events

import "strings"

var typeToName = map[EventType]string{
	EventGameStarted:            "GameStarted",
	EventGamePaused:             "GamePaused",
	EventGameResumed:            "GameResumed",
	EventGameEnded:              "GameEnded",
	EventBubbleSpawned:          "BubbleSpawned",
	EventBubbleMoved:            "BubbleMoved",
	EventBubbleEliminated:       "BubbleEliminated",
	EventBubbleEvicted:          "BubbleEvicted",
	EventBubblesCleared:         "BubblesCleared",
	EventScoreChanged:           "ScoreChanged",
	EventLivesChanged:           "LivesChanged",
	EventHypothesis:             "Hypothesis",
	EventRecognitionUnavailable: "RecognitionUnavailable",
	EventRecognitionRestarted:   "RecognitionRestarted",
}

var nameToType = func() map[string]EventType {
	m := make(map[string]EventType, len(typeToName))
	for t, name := range typeToName {
		m[strings.ToLower(name)] = t
	}
	return m
}()

// String returns the registered name, "Unknown" otherwise
func (t EventType) String() string {
	if name, ok := typeToName[t]; ok {
		return name
	}
	return "Unknown"
}

// GetEventType resolves a name case-insensitively
func GetEventType(name string) (EventType, bool) {
	et, ok := nameToType[strings.ToLower(name)]
	return et, ok
}

// AllTypes returns every registered event type in declaration order
func AllTypes() []EventType {
	types := make([]EventType, 0, len(typeToName))
	for t := EventGameStarted; t <= EventRecognitionRestarted; t++ {
		types = append(types, t)
	}
	return types
}
