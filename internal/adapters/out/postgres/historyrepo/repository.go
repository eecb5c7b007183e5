// Package historyrepo stores the status change audit trail of orders.
package historyrepo

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// EntryDTO is a row of order_history. ActorRole is the role the actor
// really held; no role is assumed.
type EntryDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OrderID    int64     `gorm:"not null;index"`
	Action     string    `gorm:"size:40;not null"`
	FromStatus string    `gorm:"size:40;not null"`
	ToStatus   string    `gorm:"size:40;not null"`
	ActorRole  string    `gorm:"size:16;not null"`
	ActorID    int64     `gorm:"not null"`
	Note       string
	CreatedAt  time.Time `gorm:"autoCreateTime:false"`
}

func (EntryDTO) TableName() string {
	return "order_history"
}

type GormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append writes one entry per transition, in order.
func (r *GormHistoryRepository) Append(ctx context.Context, orderID int64, transitions []order.Transition) error {
	if len(transitions) == 0 {
		return nil
	}
	rows := make([]EntryDTO, 0, len(transitions))
	for _, t := range transitions {
		rows = append(rows, EntryDTO{
			OrderID:    orderID,
			Action:     string(t.Action),
			FromStatus: t.From.String(),
			ToStatus:   t.To.String(),
			ActorRole:  t.Actor.Role.String(),
			ActorID:    t.Actor.ID,
			Note:       t.Note,
			CreatedAt:  t.At,
		})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
