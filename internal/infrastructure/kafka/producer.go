// Package kafka contains the audit event stream producer
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/luffex/filegate/config"
	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
)

const topicAudit = "filegate.audit"

// auditEvent is the wire format for every audit record
type auditEvent struct {
	Event     string         `json:"event"`
	Timestamp string         `json:"timestamp"`
	Fields    map[string]any `json:"fields"`
}

// Producer emits audit events to Kafka
type Producer struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewProducer creates the audit producer. An empty broker list yields a
// no-op producer so the bot runs without a Kafka deployment.
func NewProducer(cfg *config.KafkaConfig, logger zerolog.Logger) deps.AuditProducer {
	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("No Kafka brokers configured, audit events disabled")
		return &nopProducer{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topicAudit,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", topicAudit).
		Msg("Kafka audit producer initialized")

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// UploadCreated reports a persisted bundle
func (p *Producer) UploadCreated(ctx context.Context, bundleID string, userID int64, itemCount int) error {
	return p.send(ctx, bundleID, auditEvent{
		Event: "upload.created",
		Fields: map[string]any{
			"bundle_id":  bundleID,
			"user_id":    userID,
			"item_count": itemCount,
		},
	})
}

// JoinRequestDecided reports an applied ledger decision
func (p *Producer) JoinRequestDecided(ctx context.Context, chatID string, userID int64, status string, decidedBy int64) error {
	return p.send(ctx, chatID, auditEvent{
		Event: "join_request.decided",
		Fields: map[string]any{
			"chat_id":    chatID,
			"user_id":    userID,
			"status":     status,
			"decided_by": decidedBy,
		},
	})
}

// BroadcastFinished reports final fan-out totals
func (p *Producer) BroadcastFinished(ctx context.Context, report dto.BroadcastReport) error {
	return p.send(ctx, report.Target, auditEvent{
		Event: "broadcast.finished",
		Fields: map[string]any{
			"target":    report.Target,
			"total":     report.Total,
			"succeeded": report.Succeeded,
			"failed":    report.Failed,
		},
	})
}

// DownloadLogged reports one delivery
func (p *Producer) DownloadLogged(ctx context.Context, bundleID string, userID int64) error {
	return p.send(ctx, bundleID, auditEvent{
		Event: "download.logged",
		Fields: map[string]any{
			"bundle_id": bundleID,
			"user_id":   userID,
		},
	})
}

// Close flushes and closes the writer
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka writer")
		return err
	}
	p.logger.Info().Msg("Kafka audit producer closed")
	return nil
}

func (p *Producer) send(ctx context.Context, key string, event auditEvent) error {
	event.Timestamp = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("event", event.Event).Msg("Failed to write audit event")
		return err
	}

	p.logger.Debug().Str("event", event.Event).Msg("Audit event written")
	return nil
}

// nopProducer drops all events
type nopProducer struct{}

func (*nopProducer) UploadCreated(context.Context, string, int64, int) error { return nil }
func (*nopProducer) JoinRequestDecided(context.Context, string, int64, string, int64) error {
	return nil
}
func (*nopProducer) BroadcastFinished(context.Context, dto.BroadcastReport) error { return nil }
func (*nopProducer) DownloadLogged(context.Context, string, int64) error          { return nil }
func (*nopProducer) Close() error                                                 { return nil }
