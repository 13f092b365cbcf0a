package job

import (
	"context"
	"time"

	"golang.org/x/exp/slog"

	"github.com/fentashot/casino/internal/http-server/handlers/event"
	"github.com/fentashot/casino/internal/lib/logger/sl"
	"github.com/fentashot/casino/internal/producer"
)

const publishTimeout = 5 * time.Second

// SpinSettledJob fans a settled spin out to the live event channel
// and the Kafka audit topic after the transaction has committed.
// Delivery is best-effort; settlement never depends on it.
type SpinSettledJob struct {
	Publisher *event.RedisEvent
	Audit     *producer.KafkaPublisher
	Channel   string
	Event     producer.SpinSettled
	Log       *slog.Logger
}

func (j *SpinSettledJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	data := map[string]interface{}{
		"spin_id":   j.Event.SpinID,
		"number":    j.Event.Number,
		"color":     j.Event.Color,
		"total_bet": j.Event.TotalBetCents,
		"total_win": j.Event.TotalWinCents,
	}

	if err := j.Publisher.TriggerEvent(ctx, j.Channel, "spin-settled", data); err != nil {
		j.Log.Error("failed to publish spin event", sl.Err(err))
	}

	if j.Audit == nil {
		return
	}

	if err := j.Audit.PublishSpinSettled(ctx, j.Event); err != nil {
		j.Log.Error("failed to publish audit event", sl.Err(err))
	}
}

// BalanceChangedJob notifies listeners about a balance movement.
type BalanceChangedJob struct {
	Publisher *event.RedisEvent
	Channel   string
	UserID    string
	Balance   int64
	Operation string
	Log       *slog.Logger
}

func (j *BalanceChangedJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	data := map[string]interface{}{
		"user_id":        j.UserID,
		"balance":        j.Balance,
		"operation_type": j.Operation,
	}

	if err := j.Publisher.TriggerEvent(ctx, j.Channel, "balance-event", data); err != nil {
		j.Log.Error("failed to publish balance event", sl.Err(err))
	}
}
