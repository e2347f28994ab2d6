package model

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleShopkeeper Role = "shopkeeper"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleShopkeeper, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// ShopkeeperStatus is the approval state of a shopkeeper application.
// A nil *ShopkeeperStatus on User means the user never applied.
type ShopkeeperStatus string

const (
	ShopkeeperPending  ShopkeeperStatus = "pending"
	ShopkeeperApproved ShopkeeperStatus = "approved"
	ShopkeeperRejected ShopkeeperStatus = "rejected"
)

type BusinessType string

const (
	BusinessRetail        BusinessType = "retail"
	BusinessWholesale     BusinessType = "wholesale"
	BusinessManufacturing BusinessType = "manufacturing"
	BusinessService       BusinessType = "service"
	BusinessOther         BusinessType = "other"
)

func (b BusinessType) Valid() bool {
	switch b {
	case BusinessRetail, BusinessWholesale, BusinessManufacturing, BusinessService, BusinessOther:
		return true
	}
	return false
}

// Business details submitted with a shopkeeper application.
type ShopkeeperProfile struct {
	BusinessName    string       `gorm:"type:varchar(255)"`
	BusinessType    BusinessType `gorm:"type:varchar(30)"`
	BusinessAddress string       `gorm:"type:text"`
	BusinessPhone   string       `gorm:"type:varchar(30)"`
	BusinessEmail   string       `gorm:"type:varchar(255)"`
	GSTNumber       string       `gorm:"column:gst_number;type:varchar(50)"`
	ShopDescription string       `gorm:"type:text"`
	OpeningHours    string       `gorm:"type:varchar(255)"`
}

type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'user';index"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Phone        string     `gorm:"type:varchar(30)"`
	Address      string     `gorm:"type:text"`

	ShopkeeperStatus *ShopkeeperStatus `gorm:"type:varchar(20);index"`
	Shopkeeper       ShopkeeperProfile `gorm:"embedded;embeddedPrefix:shop_"`
	RejectionReason  string            `gorm:"type:text"`
	Documents        []ShopkeeperDocument

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsActive() bool {
	return u.Status != UserStatusInactive
}

// HasShopkeeperStatus reports whether the application state equals s.
func (u *User) HasShopkeeperStatus(s ShopkeeperStatus) bool {
	return u.ShopkeeperStatus != nil && *u.ShopkeeperStatus == s
}

// Supporting document for an application. The file itself lives in object storage.
type ShopkeeperDocument struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"not null;index"`
	Filename   string    `gorm:"type:varchar(255);not null"`
	StorageKey string    `gorm:"type:varchar(512);not null"`
	UploadedAt time.Time `gorm:"not null"`
}
