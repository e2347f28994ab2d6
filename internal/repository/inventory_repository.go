package repository

import "context"

type InventoryRepository interface {
	// DecreaseStockIfEnough subtracts qty only when stock >= qty and reports whether it did.
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
}
