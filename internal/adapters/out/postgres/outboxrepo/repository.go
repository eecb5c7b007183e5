// Package outboxrepo implements the transactional outbox of side effects.
package outboxrepo

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxErrorLength = 1024

// EventDTO is a row of outbox_events. Payload holds the JSON encoded effect.
type EventDTO struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	EventID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	OrderID      int64     `gorm:"not null;index"`
	Kind         string    `gorm:"size:32;not null"`
	Payload      string    `gorm:"type:jsonb;not null"`
	Attempts     int       `gorm:"not null;default:0"`
	LastError    string
	CreatedAt    time.Time
	DispatchedAt *time.Time `gorm:"index"`
}

func (EventDTO) TableName() string {
	return "outbox_events"
}

type GormOutbox struct {
	db *gorm.DB
}

func NewGormOutbox(db *gorm.DB) *GormOutbox {
	return &GormOutbox{db: db}
}

func (o *GormOutbox) Enqueue(ctx context.Context, effects []effect.Effect) error {
	if len(effects) == 0 {
		return nil
	}
	rows := make([]EventDTO, 0, len(effects))
	for _, e := range effects {
		if err := e.Validate(); err != nil {
			return err
		}
		payload, err := e.Encode()
		if err != nil {
			return err
		}
		rows = append(rows, EventDTO{
			EventID: kernel.NewUUID().Bytes(),
			OrderID: e.OrderID,
			Kind:    string(e.Kind),
			Payload: string(payload),
		})
	}
	return o.db.WithContext(ctx).Create(&rows).Error
}

// Claim must run inside a transaction; the row locks last until it ends.
// Rows whose payload no longer decodes are parked at maxAttempts.
func (o *GormOutbox) Claim(ctx context.Context, limit, maxAttempts int) ([]ports.OutboxEvent, error) {
	var rows []EventDTO
	err := o.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("dispatched_at IS NULL AND attempts < ?", maxAttempts).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]ports.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		e, decodeErr := effect.Decode([]byte(row.Payload))
		if decodeErr != nil {
			if err = o.park(ctx, row.ID, maxAttempts, decodeErr); err != nil {
				return nil, err
			}
			continue
		}
		eventID, idErr := kernel.UUIDFromString(row.EventID.String())
		if idErr != nil {
			return nil, idErr
		}
		events = append(events, ports.OutboxEvent{
			ID:        row.ID,
			EventID:   eventID,
			Effect:    e,
			Attempts:  row.Attempts,
			CreatedAt: row.CreatedAt,
		})
	}
	return events, nil
}

func (o *GormOutbox) MarkDispatched(ctx context.Context, id int64, at time.Time) error {
	return o.db.WithContext(ctx).Model(&EventDTO{}).Where("id = ?", id).
		Updates(map[string]any{"dispatched_at": at, "last_error": ""}).Error
}

func (o *GormOutbox) MarkFailed(ctx context.Context, id int64, cause error) error {
	return o.db.WithContext(ctx).Model(&EventDTO{}).Where("id = ?", id).
		Updates(map[string]any{"attempts": gorm.Expr("attempts + 1"), "last_error": truncate(cause.Error())}).Error
}

func (o *GormOutbox) park(ctx context.Context, id int64, maxAttempts int, cause error) error {
	return o.db.WithContext(ctx).Model(&EventDTO{}).Where("id = ?", id).
		Updates(map[string]any{"attempts": maxAttempts, "last_error": truncate(cause.Error())}).Error
}

// truncate keeps at most maxErrorLength bytes of valid UTF-8, cutting on a
// rune boundary. Postgres rejects invalid UTF-8 in text columns.
func truncate(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if len(s) <= maxErrorLength {
		return s
	}
	cut := maxErrorLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
