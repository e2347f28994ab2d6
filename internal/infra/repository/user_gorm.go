package repository

import (
	"context"
	"strings"
	"time"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) repo.UserRepository {
	return &userGormRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userGormRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userGormRepository) FindWithDocuments(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("id = ?", userID).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userGormRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userGormRepository) ListByShopkeeperStatus(ctx context.Context, status model.ShopkeeperStatus) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("shopkeeper_status = ?", status).
		Order("updated_at asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *userGormRepository) CountByShopkeeperStatus(ctx context.Context, status model.ShopkeeperStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("shopkeeper_status = ?", status).Count(&n).Error
	return n, err
}

func (r *userGormRepository) Update(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

func (r *userGormRepository) UpdateProfile(ctx context.Context, userID int64, patch repo.UserProfilePatch) error {
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if len(updates) == 0 {
		return nil
	}
	return r.updateColumns(ctx, r.db, userID, updates)
}

func (r *userGormRepository) UpdateStatus(ctx context.Context, userID int64, status model.UserStatus) error {
	return r.updateColumns(ctx, r.db, userID, map[string]any{"status": status})
}

func (r *userGormRepository) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.updateColumns(ctx, r.db, userID, map[string]any{"last_login_at": at})
}

func (r *userGormRepository) updateColumns(ctx context.Context, db *gorm.DB, userID int64, updates map[string]any) error {
	res := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// lockAdmins takes row locks on every admin so concurrent demotions/deletes serialize.
func lockAdmins(tx *gorm.DB) ([]int64, error) {
	var ids []int64
	err := tx.Model(&model.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("role = ?", model.RoleAdmin).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *userGormRepository) ChangeRole(ctx context.Context, userID int64, role model.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins, err := lockAdmins(tx)
		if err != nil {
			return err
		}

		var target model.User
		if err := tx.Where("id = ?", userID).First(&target).Error; err != nil {
			return translate(err)
		}
		if target.Role == model.RoleAdmin && role != model.RoleAdmin && len(admins) <= 1 {
			return repo.ErrLastAdmin
		}
		// a pending application has to be decided first
		if target.ShopkeeperStatus != nil && *target.ShopkeeperStatus == model.ShopkeeperPending {
			return repo.ErrStateChanged
		}

		updates := map[string]any{"role": role}
		// leaving the shopkeeper role revokes the approval; the user may apply again
		if target.Role == model.RoleShopkeeper {
			updates["shopkeeper_status"] = nil
			updates["rejection_reason"] = ""
		}
		return r.updateColumns(ctx, tx, userID, updates)
	})
}

func (r *userGormRepository) Delete(ctx context.Context, userID int64) ([]model.ShopkeeperDocument, error) {
	var docs []model.ShopkeeperDocument

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins, err := lockAdmins(tx)
		if err != nil {
			return err
		}

		var target model.User
		if err := tx.Where("id = ?", userID).First(&target).Error; err != nil {
			return translate(err)
		}
		if target.Role == model.RoleAdmin && len(admins) <= 1 {
			return repo.ErrLastAdmin
		}

		if err := tx.Where("user_id = ?", userID).Find(&docs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.ShopkeeperDocument{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, userID).Error
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// ---------------------
// shopkeeper application
// ---------------------

func profileColumns(p model.ShopkeeperProfile) map[string]any {
	return map[string]any{
		"shop_business_name":    p.BusinessName,
		"shop_business_type":    p.BusinessType,
		"shop_business_address": p.BusinessAddress,
		"shop_business_phone":   p.BusinessPhone,
		"shop_business_email":   p.BusinessEmail,
		"shop_gst_number":       p.GSTNumber,
		"shop_shop_description": p.ShopDescription,
		"shop_opening_hours":    p.OpeningHours,
	}
}

func (r *userGormRepository) SubmitApplication(ctx context.Context, userID int64, profile model.ShopkeeperProfile, docs []model.ShopkeeperDocument) ([]model.ShopkeeperDocument, error) {
	var replaced []model.ShopkeeperDocument

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", userID).First(&u).Error
		if err != nil {
			return translate(err)
		}

		// none or rejected -> pending, plain users only
		if u.Role != model.RoleUser {
			return repo.ErrStateChanged
		}
		if u.ShopkeeperStatus != nil && *u.ShopkeeperStatus != model.ShopkeeperRejected {
			return repo.ErrStateChanged
		}

		if err := tx.Where("user_id = ?", userID).Find(&replaced).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.ShopkeeperDocument{}).Error; err != nil {
			return err
		}

		updates := profileColumns(profile)
		updates["shopkeeper_status"] = model.ShopkeeperPending
		updates["rejection_reason"] = ""
		if err := r.updateColumns(ctx, tx, userID, updates); err != nil {
			return err
		}

		now := time.Now().UTC()
		for i := range docs {
			docs[i].ID = 0
			docs[i].UserID = userID
			if docs[i].UploadedAt.IsZero() {
				docs[i].UploadedAt = now
			}
		}
		if len(docs) > 0 {
			if err := tx.Create(&docs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return replaced, nil
}

// transition applies updates only while the row is a plain user with a pending application.
func (r *userGormRepository) transition(tx *gorm.DB, userID int64, updates map[string]any) error {
	res := tx.Model(&model.User{}).
		Where("id = ? AND role = ? AND shopkeeper_status = ?", userID, model.RoleUser, model.ShopkeeperPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var n int64
	if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return repo.ErrStateChanged
}

func (r *userGormRepository) Approve(ctx context.Context, userID int64) error {
	return r.transition(r.db.WithContext(ctx), userID, map[string]any{
		"shopkeeper_status": model.ShopkeeperApproved,
		"role":              model.RoleShopkeeper,
		"rejection_reason":  "",
	})
}

func (r *userGormRepository) Reject(ctx context.Context, userID int64, reason string) ([]model.ShopkeeperDocument, error) {
	var docs []model.ShopkeeperDocument

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.transition(tx, userID, map[string]any{
			"shopkeeper_status": model.ShopkeeperRejected,
			"rejection_reason":  reason,
		}); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Find(&docs).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.ShopkeeperDocument{}).Error
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *userGormRepository) FindDocument(ctx context.Context, userID int64, documentID int64) (model.ShopkeeperDocument, error) {
	var doc model.ShopkeeperDocument
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", documentID, userID).
		First(&doc).Error
	if err != nil {
		return model.ShopkeeperDocument{}, translate(err)
	}
	return doc, nil
}
