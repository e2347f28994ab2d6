package repository

import (
	"context"

	"shopease/internal/domain/model"
)

// AddressRepository stores a user's saved shipping addresses.
// Writes are scoped to userID; another user's address is ErrNotFound.
type AddressRepository interface {
	// Create decides IsDefault itself: only a user's first address is the default.
	Create(ctx context.Context, address model.Address) (model.Address, error)
	// default first
	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)
	FindByID(ctx context.Context, addressID int64) (model.Address, error)
	Update(ctx context.Context, userID int64, address model.Address) error
	// Delete hands the default over to the oldest remaining address.
	Delete(ctx context.Context, userID, addressID int64) error
	// SetDefault clears the previous default of the user in the same transaction.
	SetDefault(ctx context.Context, userID, addressID int64) error
}
