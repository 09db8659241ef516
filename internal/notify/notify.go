// Package notify delivers notifications over push, e-mail and realtime
// channels. Storage of notification records lives in the services package.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type Message struct {
	UserID uuid.UUID
	Title  string
	Body   string
	Type   string
	Data   map[string]string
}

// Pusher sends a mobile push to device tokens. It returns the tokens the
// provider rejected so callers can forget them.
type Pusher interface {
	Push(ctx context.Context, tokens []string, msg Message) (invalid []string, err error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Realtime interface {
	Publish(ctx context.Context, channel string, payload interface{}) error
}

// Target says where one user wants to be reached.
type Target struct {
	Email        string
	DeviceTokens []string
	Push         bool
	Mail         bool
}

type Dispatcher struct {
	push     Pusher
	mail     Mailer
	realtime Realtime
}

// NewDispatcher wires the delivery channels. Nil channels are skipped.
func NewDispatcher(push Pusher, mail Mailer, realtime Realtime) *Dispatcher {
	return &Dispatcher{push: push, mail: mail, realtime: realtime}
}

// UserChannel is the realtime channel a member's clients subscribe to.
func UserChannel(userID uuid.UUID) string {
	return "user-" + userID.String()
}

// Deliver fans msg out to every channel the target allows. Delivery failures
// are logged, never returned: the stored notification is the source of truth.
// Tokens rejected by the push provider are returned.
func (d *Dispatcher) Deliver(ctx context.Context, t Target, msg Message) []string {
	if d == nil {
		return nil
	}

	if d.realtime != nil {
		payload := map[string]interface{}{
			"type":  msg.Type,
			"title": msg.Title,
			"body":  msg.Body,
			"data":  msg.Data,
		}
		if err := d.realtime.Publish(ctx, UserChannel(msg.UserID), payload); err != nil {
			slog.Warn("realtime publish failed", "user_id", msg.UserID.String(), "error", err)
		}
	}

	var invalid []string
	if d.push != nil && t.Push && len(t.DeviceTokens) > 0 {
		var err error
		invalid, err = d.push.Push(ctx, t.DeviceTokens, msg)
		if err != nil {
			slog.Warn("push delivery failed", "user_id", msg.UserID.String(), "error", err)
		}
	}

	if d.mail != nil && t.Mail && t.Email != "" {
		if err := d.mail.Send(ctx, t.Email, msg.Title, msg.Body); err != nil {
			slog.Warn("email delivery failed", "user_id", msg.UserID.String(), "error", err)
		}
	}
	return invalid
}

// PublishRealtime forwards an arbitrary payload, used for chat fan-out.
func (d *Dispatcher) PublishRealtime(ctx context.Context, channel string, payload interface{}) {
	if d == nil || d.realtime == nil {
		return
	}
	if err := d.realtime.Publish(ctx, channel, payload); err != nil {
		slog.Warn("realtime publish failed", "channel", channel, "error", err)
	}
}
