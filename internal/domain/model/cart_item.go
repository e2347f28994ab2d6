package model

import "time"

// CartItem holds only the product and quantity; prices are read live until checkout.
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CartID    int64     `gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_cart_product"`
	Quantity  int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}
