package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// SpinSettled is the audit event emitted once per settled spin. The
// hmac and seed hash let an auditor tie the event back to the
// provably-fair disclosure.
type SpinSettled struct {
	SpinID         string `json:"spin_id"`
	UserID         string `json:"user_id"`
	Nonce          int64  `json:"nonce"`
	Number         int    `json:"number"`
	Color          string `json:"color"`
	TotalBetCents  int64  `json:"total_bet_cents"`
	TotalWinCents  int64  `json:"total_win_cents"`
	Hmac           string `json:"hmac"`
	ServerSeedHash string `json:"server_seed_hash"`
	TsUnixMs       int64  `json:"ts_unix_ms"`
}

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) PublishSpinSettled(ctx context.Context, e SpinSettled) error {
	const op = "producer.KafkaPublisher.PublishSpinSettled"

	e.TsUnixMs = time.Now().UnixMilli()

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = p.Writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.SpinID), Value: b}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}
