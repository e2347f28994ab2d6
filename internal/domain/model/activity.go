package model

import "time"

type ActivityType string

const (
	ActivityUserRegistered      ActivityType = "user_registered"
	ActivityOrderCreated        ActivityType = "order_created"
	ActivityProductStockUpdated ActivityType = "product_stock_updated"
	ActivityProductCreated      ActivityType = "product_created"
)

// Activity is an append-only record of a notable state change.
// The referenced rows are looked up, not owned: deleting them keeps the record.
type Activity struct {
	ID          int64        `gorm:"primaryKey;autoIncrement"`
	Type        ActivityType `gorm:"type:varchar(50);not null;index"`
	Description string       `gorm:"type:text;not null"`

	UserID    *int64 `gorm:"index"`
	ProductID *int64 `gorm:"index"`
	OrderID   *int64 `gorm:"index"`

	User    *User    `gorm:"foreignKey:UserID"`
	Product *Product `gorm:"foreignKey:ProductID"`
	Order   *Order   `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `gorm:"not null;index"`
}
