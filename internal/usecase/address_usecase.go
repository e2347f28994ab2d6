package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"shopease/internal/domain/model"
	"shopease/internal/repository"
)

type AddressOutput struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"fullName"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type AddressInput struct {
	FullName   string
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

func (in AddressInput) apply(a *model.Address) error {
	a.FullName = strings.TrimSpace(in.FullName)
	a.Line = strings.TrimSpace(in.Address)
	a.City = strings.TrimSpace(in.City)
	a.State = strings.TrimSpace(in.State)
	a.PostalCode = strings.TrimSpace(in.PostalCode)
	a.Country = strings.TrimSpace(in.Country)
	a.Phone = strings.TrimSpace(in.Phone)
	if a.FullName == "" || a.Line == "" || a.City == "" || a.PostalCode == "" || a.Country == "" {
		return ErrValidation("fullName, address, city, postalCode and country are required")
	}
	return nil
}

type AddressUsecase struct {
	addresses repository.AddressRepository
}

func NewAddressUsecase(addresses repository.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressOutput, error) {
	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal(err)
	}

	out := make([]AddressOutput, 0, len(list))
	for i := range list {
		out = append(out, toAddressOutput(&list[i]))
	}
	return out, nil
}

// Create makes the user's first address the default.
func (u *AddressUsecase) Create(ctx context.Context, userID int64, in AddressInput) (AddressOutput, error) {
	now := time.Now()
	a := model.Address{UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := in.apply(&a); err != nil {
		return AddressOutput{}, err
	}

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return AddressOutput{}, ErrInternal(err)
	}
	return toAddressOutput(&created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, in AddressInput) (AddressOutput, error) {
	current, err := u.owned(ctx, userID, addressID)
	if err != nil {
		return AddressOutput{}, err
	}
	if err := in.apply(&current); err != nil {
		return AddressOutput{}, err
	}
	current.UpdatedAt = time.Now()

	if err := u.addresses.Update(ctx, userID, current); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AddressOutput{}, ErrNotFound("Address not found")
		}
		return AddressOutput{}, ErrInternal(err)
	}
	return toAddressOutput(&current), nil
}

// Delete hands the default over to the oldest remaining address.
func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if _, err := u.owned(ctx, userID, addressID); err != nil {
		return err
	}

	if err := u.addresses.Delete(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound("Address not found")
		}
		return ErrInternal(err)
	}
	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID int64, addressID int64) (AddressOutput, error) {
	current, err := u.owned(ctx, userID, addressID)
	if err != nil {
		return AddressOutput{}, err
	}

	// one default per user
	if err := u.addresses.SetDefault(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AddressOutput{}, ErrNotFound("Address not found")
		}
		return AddressOutput{}, ErrInternal(err)
	}
	current.IsDefault = true
	return toAddressOutput(&current), nil
}

// owned answers 404 for addresses of other users.
func (u *AddressUsecase) owned(ctx context.Context, userID, addressID int64) (model.Address, error) {
	if addressID <= 0 {
		return model.Address{}, ErrValidation("invalid address id")
	}
	a, err := u.addresses.FindByID(ctx, addressID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Address{}, ErrNotFound("Address not found")
	}
	if err != nil {
		return model.Address{}, ErrInternal(err)
	}
	if a.UserID != userID {
		return model.Address{}, ErrNotFound("Address not found")
	}
	return a, nil
}

func toAddressOutput(a *model.Address) AddressOutput {
	return AddressOutput{
		ID:         a.ID,
		FullName:   a.FullName,
		Address:    a.Line,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
