package repository

import (
	"context"
	"time"

	"shopease/internal/domain/model"
)

type UserProfilePatch struct {
	Name    *string
	Phone   *string
	Address *string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// FindByID does not load documents.
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindWithDocuments(ctx context.Context, userID int64) (*model.User, error)
	// email is matched case-insensitively
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByShopkeeperStatus(ctx context.Context, status model.ShopkeeperStatus) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	CountByShopkeeperStatus(ctx context.Context, status model.ShopkeeperStatus) (int64, error)

	// Update saves every column of user.
	Update(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, userID int64, patch UserProfilePatch) error
	UpdateStatus(ctx context.Context, userID int64, status model.UserStatus) error
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error

	// ChangeRole refuses (ErrLastAdmin) to demote the only remaining admin and
	// (ErrStateChanged) to touch a user whose application is pending. Moving a
	// shopkeeper to another role clears the approval.
	ChangeRole(ctx context.Context, userID int64, role model.Role) error
	// Delete refuses (ErrLastAdmin) to remove the only remaining admin and
	// returns the documents the user had so their files can be released.
	Delete(ctx context.Context, userID int64) ([]model.ShopkeeperDocument, error)

	ShopkeeperRepository
}

// ShopkeeperRepository persists the shopkeeper application state machine.
// Every transition is a single conditional write; ErrStateChanged means the
// row was not in an allowed source state.
type ShopkeeperRepository interface {
	// SubmitApplication moves none|rejected -> pending and replaces the user's documents.
	// It returns the documents it replaced.
	SubmitApplication(ctx context.Context, userID int64, profile model.ShopkeeperProfile, docs []model.ShopkeeperDocument) ([]model.ShopkeeperDocument, error)
	// Approve moves pending -> approved and sets role to shopkeeper in the same
	// statement. Only rows whose role is still user qualify.
	Approve(ctx context.Context, userID int64) error
	// Reject moves pending -> rejected, stores the reason and removes the document rows,
	// returning them so the caller can delete the stored files.
	Reject(ctx context.Context, userID int64, reason string) ([]model.ShopkeeperDocument, error)
	FindDocument(ctx context.Context, userID int64, documentID int64) (model.ShopkeeperDocument, error)
}
