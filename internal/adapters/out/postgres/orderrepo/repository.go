package orderrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker is told about every written order so the unit of work
// can mark it stored once the transaction commits.
type aggregateTracker interface {
	Track(aggregate *order.Order)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its items, then copies the generated ids back.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	itemIDs := make([]int64, 0, len(dto.Items))
	for _, it := range dto.Items {
		itemIDs = append(itemIDs, it.ID)
	}
	aggregate.AssignIdentity(dto.ID, itemIDs)
	return nil
}

// Update writes the mutable columns if the row still has the status and
// version the aggregate was read with.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	if err := r.compareAndSwap(ctx, aggregate, stateColumns(fromDomain(aggregate))); err != nil {
		return err
	}

	r.tracker.Track(aggregate)
	return nil
}

// ReplaceItems swaps all item rows under the same precondition as Update.
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	if err := r.compareAndSwap(ctx, aggregate, itemColumns(fromDomain(aggregate))); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", aggregate.ID()).Delete(&ItemDTO{}).Error; err != nil {
		return err
	}

	items := itemsFromDomain(aggregate.ID(), aggregate.Items())
	for i := range items {
		items[i].ID = 0
	}
	if err := db.Create(&items).Error; err != nil {
		return err
	}

	itemIDs := make([]int64, 0, len(items))
	for _, it := range items {
		itemIDs = append(itemIDs, it.ID)
	}
	aggregate.AssignIdentity(aggregate.ID(), itemIDs)

	r.tracker.Track(aggregate)
	return nil
}

func (r *GormOrderRepository) compareAndSwap(ctx context.Context, aggregate *order.Order, columns map[string]any) error {
	columns["version"] = gorm.Expr("version + 1")

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND version = ?", aggregate.ID(), aggregate.StoredStatus().String(), aggregate.Version()).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", aggregate.ID()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}
	return errs.NewConflictError("order", aggregate.ID())
}

func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	return r.first(ctx, "id", id)
}

func (r *GormOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	return r.first(ctx, "number", number)
}

func (r *GormOrderRepository) first(ctx context.Context, column string, value any) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where(column+" = ?", value).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", value)
		}
		return nil, err
	}

	return toDomain(dto)
}
