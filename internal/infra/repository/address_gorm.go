package repository

import (
	"context"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type addressGormRepository struct {
	db *gorm.DB
}

func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

// lockAddressBook serializes address writes of one user on the user row, so
// two first addresses cannot both become the default.
func lockAddressBook(tx *gorm.DB, userID int64) error {
	var ids []int64
	return tx.Model(&model.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).
		Pluck("id", &ids).Error
}

// Create stores the address; the user's first one becomes the default.
func (r *addressGormRepository) Create(ctx context.Context, address model.Address) (model.Address, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAddressBook(tx, address.UserID); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.Address{}).Where("user_id = ?", address.UserID).Count(&n).Error; err != nil {
			return err
		}
		address.IsDefault = n == 0
		return tx.Create(&address).Error
	})
	if err != nil {
		return model.Address{}, translate(err)
	}
	return address, nil
}

// default first, then oldest
func (r *addressGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	var book []model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("id ASC").
		Find(&book).Error
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (r *addressGormRepository) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	var a model.Address
	if err := r.db.WithContext(ctx).Where("id = ?", addressID).First(&a).Error; err != nil {
		return model.Address{}, translate(err)
	}
	return a, nil
}

// Update rewrites the postal fields; the default flag has its own method.
func (r *addressGormRepository) Update(ctx context.Context, userID int64, address model.Address) error {
	res := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ? AND user_id = ?", address.ID, userID).
		Updates(map[string]any{
			"full_name":   address.FullName,
			"line":        address.Line,
			"city":        address.City,
			"state":       address.State,
			"postal_code": address.PostalCode,
			"country":     address.Country,
			"phone":       address.Phone,
			"updated_at":  address.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Delete removes the address and promotes the oldest remaining one when the
// default went away.
func (r *addressGormRepository) Delete(ctx context.Context, userID, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAddressBook(tx, userID); err != nil {
			return err
		}

		var gone model.Address
		if err := tx.Where("id = ? AND user_id = ?", addressID, userID).First(&gone).Error; err != nil {
			return translate(err)
		}
		if err := tx.Delete(&model.Address{}, gone.ID).Error; err != nil {
			return err
		}
		if !gone.IsDefault {
			return nil
		}

		var next model.Address
		err := tx.Where("user_id = ?", userID).Order("id ASC").First(&next).Error
		if translate(err) == repo.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&model.Address{}).Where("id = ?", next.ID).Update("is_default", true).Error
	})
}

// SetDefault moves the default flag to addressID.
func (r *addressGormRepository) SetDefault(ctx context.Context, userID, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAddressBook(tx, userID); err != nil {
			return err
		}

		res := tx.Model(&model.Address{}).
			Where("user_id = ?", userID).
			Update("is_default", gorm.Expr("id = ?", addressID))
		if res.Error != nil {
			return res.Error
		}

		var n int64
		if err := tx.Model(&model.Address{}).
			Where("id = ? AND user_id = ? AND is_default", addressID, userID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			// rolls the flag change back
			return repo.ErrNotFound
		}
		return nil
	})
}
