package repository

import (
	"context"

	"shopease/internal/domain/model"

	"github.com/shopspring/decimal"
)

type ProductSort string

const (
	SortNewest    ProductSort = "-createdAt"
	SortOldest    ProductSort = "createdAt"
	SortPriceAsc  ProductSort = "price"
	SortPriceDesc ProductSort = "-price"
	SortNameAsc   ProductSort = "name"
	SortNameDesc  ProductSort = "-name"
)

func (s ProductSort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return true
	}
	return false
}

// ProductListQuery filters, sorts and pages the catalog.
type ProductListQuery struct {
	Page           int
	Limit          int
	Search         string
	Category       model.Category
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	ShopkeeperID   *int64
	ApprovalStatus model.ApprovalStatus
	Sort           ProductSort
}

// ProductPatch carries only the columns a product edit sent. nil means "leave as is".
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int64
	Category    *model.Category
	Image       *string
	ImageKey    *string
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Stock == nil &&
		p.Category == nil && p.Image == nil && p.ImageKey == nil
}

type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	Count(ctx context.Context) (int64, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	// Update writes only the columns set in patch, so a concurrent stock
	// decrement survives an edit that did not send stock.
	Update(ctx context.Context, id int64, patch ProductPatch) error
	UpdateApproval(ctx context.Context, id int64, status model.ApprovalStatus, reason string) error
	SoftDelete(ctx context.Context, id int64) error
}
