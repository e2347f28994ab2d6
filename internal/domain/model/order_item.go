package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem freezes the product as it was at purchase time.
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement"`
	OrderID             int64           `gorm:"not null;index"`
	ProductID           int64           `gorm:"not null;index"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null"`
	UnitPriceSnapshot   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ImageSnapshot       string          `gorm:"type:varchar(512)"`
	Quantity            int64           `gorm:"not null"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime"`
}

func (it OrderItem) LineTotal() decimal.Decimal {
	return it.UnitPriceSnapshot.Mul(decimal.NewFromInt(it.Quantity))
}
