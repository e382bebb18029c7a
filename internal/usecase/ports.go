package usecase

import (
	"context"
	"time"
)

// TxRunner runs fn inside one storage transaction. Every repository call
// made with the context fn receives joins that transaction, and any error
// rolls the whole mutation back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(username string) (token string, expiresAt time.Time, err error)
}

// PasswordManager hides the hashing scheme from the services.
type PasswordManager interface {
	Hash(password string) (string, error)
	Check(hash, password string) bool
	Generate() (string, error)
}

// Notifier delivers pool announcements. Implementations are fire-and-forget
// friendly; only flows that promise delivery inspect the error.
type Notifier interface {
	PasswordReset(ctx context.Context, email, username, tempPassword string) error
	GameGraded(ctx context.Context, homeTeam, awayTeam, winner string, affectedPicks int) error
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) PasswordReset(context.Context, string, string, string) error {
	return nil
}

func (NopNotifier) GameGraded(context.Context, string, string, string, int) error {
	return nil
}
