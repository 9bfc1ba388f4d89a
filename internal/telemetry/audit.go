// Package telemetry emits audit envelopes for security- and money-relevant actions.
package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Audit event names.
const (
	EventSignup          = "user.signup"
	EventLogin           = "user.login"
	EventAccountDeleted  = "user.deleted"
	EventMessageSent     = "chat.message_sent"
	EventWalletCredited  = "wallet.credited"
	EventPaymentFailed   = "wallet.payment_failed"
	EventFriendAccepted  = "friend.accepted"
	EventDebugAuditProbe = "debug.audit_test"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
	now         func() time.Time
}

type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	UserID        *string      `json:"user_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Text   string         `json:"text"`
	Fields map[string]any `json:"fields,omitempty"`
}

func NewAuditEmitter(publisher Publisher, routingKey, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
		now:         time.Now,
	}
}

// Emit publishes one audit envelope. Failures are logged, never returned.
func (e *AuditEmitter) Emit(ctx context.Context, action, text, requestID string, userID int, fields map[string]any) {
	if e == nil || e.publisher == nil {
		return
	}

	var uid *string
	if userID != 0 {
		s := strconv.Itoa(userID)
		uid = &s
	}

	log.Debug().Str("action", action).Str("request_id", requestID).Int("user_id", userID).Str("text", text).Msg("audit emit")
	envelope := AuditEnvelope{
		SchemaVersion: 1,
		EventType:     "audit_log",
		OccurredAt:    e.now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		UserID:        uid,
		Payload: AuditPayload{
			Level:  "INFO",
			Action: action,
			Text:   text,
			Fields: fields,
		},
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("audit publish failed")
	}
}
