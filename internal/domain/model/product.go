package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryHome        Category = "home"
	CategoryBooks       Category = "books"
	CategoryOther       Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryHome, CategoryBooks, CategoryOther:
		return true
	}
	return false
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text;not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;check:price >= 0"`
	Stock       int64           `gorm:"not null;check:stock >= 0"`
	Category    Category        `gorm:"type:varchar(30);not null;index"`

	// public path served under /images and the storage key behind it
	Image    string `gorm:"type:varchar(512);not null"`
	ImageKey string `gorm:"type:varchar(512);not null"`

	ShopkeeperID    int64          `gorm:"not null;index"`
	ApprovalStatus  ApprovalStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason string         `gorm:"type:text"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
