package notify

import (
	"context"
	"fmt"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

type ExpoPusher struct {
	client *expo.PushClient
}

func NewExpoPusher() *ExpoPusher {
	return &ExpoPusher{client: expo.NewPushClient(nil)}
}

func (p *ExpoPusher) Push(_ context.Context, tokens []string, msg Message) ([]string, error) {
	var valid []expo.ExponentPushToken
	var invalid []string
	for _, raw := range tokens {
		tok, err := expo.NewExponentPushToken(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		valid = append(valid, tok)
	}
	if len(valid) == 0 {
		return invalid, nil
	}

	resp, err := p.client.Publish(&expo.PushMessage{
		To:       valid,
		Title:    msg.Title,
		Body:     msg.Body,
		Sound:    "default",
		Priority: expo.DefaultPriority,
		Data:     msg.Data,
	})
	if err != nil {
		return invalid, fmt.Errorf("publish push: %w", err)
	}
	if err := resp.ValidateResponse(); err != nil {
		return invalid, fmt.Errorf("push rejected: %w", err)
	}
	return invalid, nil
}
