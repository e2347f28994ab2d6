package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShippingAddress struct {
	FullName   string `gorm:"type:varchar(255);not null"`
	Address    string `gorm:"type:text;not null"`
	City       string `gorm:"type:varchar(255);not null"`
	State      string `gorm:"type:varchar(255)"`
	PostalCode string `gorm:"type:varchar(20);not null"`
	Country    string `gorm:"type:varchar(100);not null"`
	Phone      string `gorm:"type:varchar(30)"`
}

type Order struct {
	ID       int64           `gorm:"primaryKey;autoIncrement"`
	UserID   int64           `gorm:"not null;index"`
	Shipping ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_"`

	PaymentMethod string          `gorm:"type:varchar(50);not null;default:'cod'"`
	ItemsPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TaxPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	IsPaid      bool `gorm:"not null;default:false"`
	PaidAt      *time.Time
	IsDelivered bool `gorm:"not null;default:false"`
	DeliveredAt *time.Time

	// optional client-supplied key; a retried checkout returns the same order
	IdempotencyKey *string `gorm:"type:varchar(255);uniqueIndex"`

	Items []OrderItem

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}
