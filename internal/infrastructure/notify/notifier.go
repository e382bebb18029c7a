package notify

import (
	"context"
	"fmt"
	"time"
)

// Notifier shapes pool events into webhook payloads. It satisfies the
// notifier port the services depend on.
type Notifier struct {
	webhook *WebhookNotifier
	now     func() time.Time
}

func NewNotifier(webhook *WebhookNotifier) *Notifier {
	return &Notifier{
		webhook: webhook,
		now:     time.Now,
	}
}

// PasswordReset announces a temporary password so the delivery hook can
// email or message it to the member.
func (n *Notifier) PasswordReset(ctx context.Context, email, username, tempPassword string) error {
	if !n.webhook.Enabled() {
		return nil
	}
	return n.webhook.Publish(ctx, Event{
		Kind:    KindPasswordReset,
		Subject: email,
		Message: fmt.Sprintf("Temporary password issued for %s", username),
		Meta: map[string]any{
			"username":      username,
			"temp_password": tempPassword,
		},
		SentAt: n.now().UTC(),
	})
}

// GameGraded announces a final so members hear scores moved.
func (n *Notifier) GameGraded(ctx context.Context, homeTeam, awayTeam, winner string, affectedPicks int) error {
	if !n.webhook.Enabled() {
		return nil
	}
	return n.webhook.Publish(ctx, Event{
		Kind:    KindGameGraded,
		Subject: fmt.Sprintf("%s at %s", awayTeam, homeTeam),
		Message: fmt.Sprintf("Final: %s. %d picks graded.", winner, affectedPicks),
		Meta: map[string]any{
			"home_team": homeTeam,
			"away_team": awayTeam,
			"winner":    winner,
		},
		SentAt: n.now().UTC(),
	})
}
