package inventory

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockLock represents a reservation of stock for a pending checkout
type StockLock struct {
	shared.BaseEntity
	InventoryItemID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Quantity        int        `gorm:"not null"`
	SourceType      string     `gorm:"type:varchar(50);not null;index:idx_lock_src"`  // e.g. "order"
	SourceID        string     `gorm:"type:varchar(100);not null;index:idx_lock_src"` // ID of the source document
	ExpireAt        time.Time  `gorm:"not null;index"`
	Released        bool       `gorm:"not null;default:false"` // lock was released (cancelled or expired)
	Consumed        bool       `gorm:"not null;default:false"` // lock was consumed (order shipped)
	ReleasedAt      *time.Time `gorm:"type:timestamp"`
}

// TableName returns the table name for GORM
func (StockLock) TableName() string {
	return "stock_locks"
}

// NewStockLock creates a new stock lock
func NewStockLock(inventoryItemID uuid.UUID, quantity int, sourceType, sourceID string, expireAt time.Time) *StockLock {
	return &StockLock{
		BaseEntity:      shared.NewBaseEntity(),
		InventoryItemID: inventoryItemID,
		Quantity:        quantity,
		SourceType:      sourceType,
		SourceID:        sourceID,
		ExpireAt:        expireAt,
	}
}

// IsActive returns true if the lock is still active (not released or consumed)
func (l *StockLock) IsActive() bool {
	return !l.Released && !l.Consumed
}

// IsExpired returns true if the lock has expired
func (l *StockLock) IsExpired() bool {
	return time.Now().After(l.ExpireAt)
}

// Release marks the lock as released (cancellation or expiry)
func (l *StockLock) Release() {
	now := time.Now()
	l.Released = true
	l.ReleasedAt = &now
	l.UpdatedAt = now
}

// Consume marks the lock as consumed (fulfillment)
func (l *StockLock) Consume() {
	now := time.Now()
	l.Consumed = true
	l.ReleasedAt = &now
	l.UpdatedAt = now
}

// TimeUntilExpiry returns the duration until the lock expires.
// Returns a negative duration if already expired.
func (l *StockLock) TimeUntilExpiry() time.Duration {
	return time.Until(l.ExpireAt)
}
