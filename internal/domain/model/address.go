package model

import "time"

// Address is a saved shipping address that checkout can copy into an order.
type Address struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	UserID     int64  `gorm:"not null;index"`
	FullName   string `gorm:"type:varchar(255);not null"`
	Line       string `gorm:"type:text;not null"`
	City       string `gorm:"type:varchar(255);not null"`
	State      string `gorm:"type:varchar(255)"`
	PostalCode string `gorm:"type:varchar(20);not null"`
	Country    string `gorm:"type:varchar(100);not null"`
	Phone      string `gorm:"type:varchar(30)"`
	IsDefault  bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (a Address) ToShipping() ShippingAddress {
	return ShippingAddress{
		FullName:   a.FullName,
		Address:    a.Line,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}
