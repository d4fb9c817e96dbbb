// Package notify delivers pipeline outcomes as push notifications.
package notify

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// NewFCM returns an FCM notifier. The client may be nil, in which case Send
// is a no-op.
func NewFCM(messaging *messaging.Client) *FCM {
	return &FCM{
		messaging: messaging,
	}
}

type FCM struct {
	messaging *messaging.Client
}

// Send delivers one notification to the device identified by token. Delivery
// is best-effort; callers log and ignore the returned error.
func (f *FCM) Send(ctx context.Context, token string, title string, body string, data map[string]string) error {
	if f.messaging == nil || token == "" {
		return nil
	}
	if _, err := f.messaging.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}); err != nil {
		return fmt.Errorf("notify: sending message: %w", err)
	}
	return nil
}
