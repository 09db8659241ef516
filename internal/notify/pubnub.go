package notify

import (
	"context"

	pubnub "github.com/pubnub/go/v7"
)

type PubNubRealtime struct {
	pn *pubnub.PubNub
}

func NewPubNubRealtime(publishKey, subscribeKey, secretKey string) *PubNubRealtime {
	cfg := pubnub.NewConfigWithUserId(pubnub.UserId("coworkhub-server"))
	cfg.PublishKey = publishKey
	cfg.SubscribeKey = subscribeKey
	cfg.SecretKey = secretKey
	return &PubNubRealtime{pn: pubnub.NewPubNub(cfg)}
}

func (r *PubNubRealtime) Publish(_ context.Context, channel string, payload interface{}) error {
	_, _, err := r.pn.Publish().
		Channel(channel).
		Message(payload).
		Execute()
	return err
}
