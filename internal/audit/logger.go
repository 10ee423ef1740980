package audit

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/micahlt/scratchverifier/internal/model"
)

type EventType string

const (
	EventChallengeStart   EventType = "challenge_start"
	EventChallengeFail    EventType = "challenge_fail"
	EventChallengeSuccess EventType = "challenge_success"
)

// TypeFor maps a persisted log type to its audit event type.
func TypeFor(t model.LogType) EventType {
	switch t {
	case model.LogStart:
		return EventChallengeStart
	case model.LogSuccess:
		return EventChallengeSuccess
	default:
		return EventChallengeFail
	}
}

type Event struct {
	Type     EventType
	ClientID int64
	Username string
}

// Emit writes a structured audit event to the log stream. Every persisted
// log row gets a matching emission; the table remains the queryable record.
func Emit(event Event) {
	log.Info().
		Str("audit", "challenge").
		Str("event_type", string(event.Type)).
		Int64("client_id", event.ClientID).
		Str("username", event.Username).
		Time("timestamp", time.Now()).
		Msg("challenge audit event")
}
