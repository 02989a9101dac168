package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/funds/id"
	"github.com/xraph/funds/types"
)

// Message is the payload handed to a Notifier after a transaction
// reaches COMPLETED.
type Message struct {
	UserID        string
	Channel       Channel
	TransactionID id.TransactionID
	FundName      string
	Kind          string // "subscription" or "cancellation"
	Amount        types.Money
	OccurredAt    time.Time
}

// Notifier delivers a transaction notification over a channel. Errors
// are logged and counted by the engine but never surfaced to callers.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, msg Message) error

func (f NotifierFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// LogNotifier writes notifications to a structured logger instead of an
// external provider. It is the development-mode default.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Send logs the message at info level.
func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	n.logger.Info("notification dispatched",
		"channel", string(msg.Channel),
		"user_id", msg.UserID,
		"transaction_id", msg.TransactionID.String(),
		"kind", msg.Kind,
		"fund", msg.FundName,
		"amount", msg.Amount.Display(),
	)
	return nil
}
