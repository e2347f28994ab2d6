package usecase

import (
	"time"

	"shopease/internal/domain/model"

	"github.com/shopspring/decimal"
)

// JSON views. isAdmin exists only here and in token claims; role is stored alone.

type DocumentOutput struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type ShopkeeperDetailsOutput struct {
	BusinessName    string           `json:"businessName"`
	BusinessType    string           `json:"businessType"`
	BusinessAddress string           `json:"businessAddress"`
	BusinessPhone   string           `json:"businessPhone"`
	BusinessEmail   string           `json:"businessEmail"`
	GSTNumber       string           `json:"gstNumber,omitempty"`
	ShopDescription string           `json:"shopDescription,omitempty"`
	OpeningHours    string           `json:"openingHours,omitempty"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	Documents       []DocumentOutput `json:"documents"`
}

type UserOutput struct {
	ID                int64                    `json:"id"`
	Name              string                   `json:"name"`
	Email             string                   `json:"email"`
	Role              model.Role               `json:"role"`
	IsAdmin           bool                     `json:"isAdmin"`
	Status            model.UserStatus         `json:"status"`
	Phone             string                   `json:"phone,omitempty"`
	Address           string                   `json:"address,omitempty"`
	ShopkeeperStatus  *model.ShopkeeperStatus  `json:"shopkeeperStatus,omitempty"`
	ShopkeeperDetails *ShopkeeperDetailsOutput `json:"shopkeeperDetails,omitempty"`
	LastLoginAt       *time.Time               `json:"lastLoginAt,omitempty"`
	CreatedAt         time.Time                `json:"createdAt"`
	UpdatedAt         time.Time                `json:"updatedAt"`
}

func ToUserOutput(u *model.User) UserOutput {
	out := UserOutput{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		IsAdmin:          u.IsAdmin(),
		Status:           u.Status,
		Phone:            u.Phone,
		Address:          u.Address,
		ShopkeeperStatus: u.ShopkeeperStatus,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if u.ShopkeeperStatus == nil {
		return out
	}

	docs := make([]DocumentOutput, 0, len(u.Documents))
	for _, d := range u.Documents {
		docs = append(docs, DocumentOutput{ID: d.ID, Filename: d.Filename, UploadedAt: d.UploadedAt})
	}
	p := u.Shopkeeper
	out.ShopkeeperDetails = &ShopkeeperDetailsOutput{
		BusinessName:    p.BusinessName,
		BusinessType:    string(p.BusinessType),
		BusinessAddress: p.BusinessAddress,
		BusinessPhone:   p.BusinessPhone,
		BusinessEmail:   p.BusinessEmail,
		GSTNumber:       p.GSTNumber,
		ShopDescription: p.ShopDescription,
		OpeningHours:    p.OpeningHours,
		RejectionReason: u.RejectionReason,
		Documents:       docs,
	}
	return out
}

func toUserOutputs(users []model.User) []UserOutput {
	out := make([]UserOutput, 0, len(users))
	for i := range users {
		out = append(out, ToUserOutput(&users[i]))
	}
	return out
}

type ProductOutput struct {
	ID              int64                `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Price           decimal.Decimal      `json:"price"`
	Stock           int64                `json:"stock"`
	Category        model.Category       `json:"category"`
	Image           string               `json:"image"`
	ShopkeeperID    int64                `json:"shopkeeperId"`
	ApprovalStatus  model.ApprovalStatus `json:"approvalStatus"`
	RejectionReason string               `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Stock:           p.Stock,
		Category:        p.Category,
		Image:           p.Image,
		ShopkeeperID:    p.ShopkeeperID,
		ApprovalStatus:  p.ApprovalStatus,
		RejectionReason: p.RejectionReason,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type OrderItemOutput struct {
	ProductID int64           `json:"product"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type ShippingAddressOutput struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	UserID          int64                 `json:"user"`
	Items           []OrderItemOutput     `json:"items"`
	ShippingAddress ShippingAddressOutput `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal       `json:"itemsPrice"`
	TaxPrice        decimal.Decimal       `json:"taxPrice"`
	TotalPrice      decimal.Decimal       `json:"totalPrice"`
	IsPaid          bool                  `json:"isPaid"`
	PaidAt          *time.Time            `json:"paidAt,omitempty"`
	IsDelivered     bool                  `json:"isDelivered"`
	DeliveredAt     *time.Time            `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Image:     it.ImageSnapshot,
			Quantity:  it.Quantity,
			LineTotal: model.Money(it.LineTotal()),
		})
	}

	s := o.Shipping
	return OrderOutput{
		ID:     o.ID,
		UserID: o.UserID,
		Items:  outItems,
		ShippingAddress: ShippingAddressOutput{
			FullName:   s.FullName,
			Address:    s.Address,
			City:       s.City,
			State:      s.State,
			PostalCode: s.PostalCode,
			Country:    s.Country,
			Phone:      s.Phone,
		},
		PaymentMethod: o.PaymentMethod,
		ItemsPrice:    o.ItemsPrice,
		TaxPrice:      o.TaxPrice,
		TotalPrice:    o.TotalPrice,
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
	}
}

type RefOutput struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ActivityOutput struct {
	ID          int64              `json:"id"`
	Type        model.ActivityType `json:"type"`
	Description string             `json:"description"`
	User        *RefOutput         `json:"user,omitempty"`
	Product     *RefOutput         `json:"product,omitempty"`
	Order       *int64             `json:"order,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func toActivityOutput(a model.Activity) ActivityOutput {
	out := ActivityOutput{
		ID:          a.ID,
		Type:        a.Type,
		Description: a.Description,
		Order:       a.OrderID,
		CreatedAt:   a.CreatedAt,
	}
	if a.User != nil {
		out.User = &RefOutput{ID: a.User.ID, Name: a.User.Name}
	}
	if a.Product != nil {
		out.Product = &RefOutput{ID: a.Product.ID, Name: a.Product.Name}
	}
	return out
}
