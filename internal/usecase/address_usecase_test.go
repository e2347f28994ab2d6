package usecase

import (
	"net/http"
	"testing"

	"shopease/internal/domain/model"
	"shopease/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func homeAddress() AddressInput {
	return AddressInput{FullName: "Ann Lee", Address: "9 Hill Rd", City: "Goa", PostalCode: "403001", Country: "India"}
}

func TestCreateAddress_RepositoryDecidesDefault(t *testing.T) {
	addresses := new(mocks.AddressRepository)
	uc := NewAddressUsecase(addresses)

	addresses.On("Create", mock.Anything, mock.MatchedBy(func(a model.Address) bool {
		return a.UserID == 7 && a.Line == "9 Hill Rd" && a.Country == "India"
	})).Return(model.Address{ID: 1, UserID: 7, Line: "9 Hill Rd", IsDefault: true}, nil).Once()

	out, err := uc.Create(ctx, 7, homeAddress())
	require.NoError(t, err)
	assert.True(t, out.IsDefault)
	assert.Equal(t, "9 Hill Rd", out.Address)
	addresses.AssertNotCalled(t, "ListByUserID", mock.Anything, mock.Anything)
}

func TestCreateAddress_Validation(t *testing.T) {
	in := homeAddress()
	in.City = " "
	_, err := NewAddressUsecase(new(mocks.AddressRepository)).Create(ctx, 7, in)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestAddress_OtherUsersAddressIsNotFound(t *testing.T) {
	addresses := new(mocks.AddressRepository)
	uc := NewAddressUsecase(addresses)
	addresses.On("FindByID", mock.Anything, int64(1)).Return(model.Address{ID: 1, UserID: 8}, nil)

	_, err := uc.Update(ctx, 7, 1, homeAddress())
	assertStatus(t, err, http.StatusNotFound)

	err = uc.Delete(ctx, 7, 1)
	assertStatus(t, err, http.StatusNotFound)

	_, err = uc.SetDefault(ctx, 7, 1)
	assertStatus(t, err, http.StatusNotFound)

	addresses.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	addresses.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteAddress_ScopedToOwner(t *testing.T) {
	addresses := new(mocks.AddressRepository)
	uc := NewAddressUsecase(addresses)
	addresses.On("FindByID", mock.Anything, int64(1)).Return(model.Address{ID: 1, UserID: 7, IsDefault: true}, nil)
	addresses.On("Delete", mock.Anything, int64(7), int64(1)).Return(nil)

	require.NoError(t, uc.Delete(ctx, 7, 1))
	addresses.AssertExpectations(t)
}

func TestUpdateAddress(t *testing.T) {
	addresses := new(mocks.AddressRepository)
	uc := NewAddressUsecase(addresses)
	addresses.On("FindByID", mock.Anything, int64(1)).Return(model.Address{ID: 1, UserID: 7, IsDefault: true}, nil)
	addresses.On("Update", mock.Anything, int64(7), mock.MatchedBy(func(a model.Address) bool {
		return a.ID == 1 && a.City == "Goa" && a.IsDefault
	})).Return(nil)

	out, err := uc.Update(ctx, 7, 1, homeAddress())

	require.NoError(t, err)
	assert.Equal(t, "Goa", out.City)
	assert.True(t, out.IsDefault)
}

func TestSetDefaultAddress(t *testing.T) {
	addresses := new(mocks.AddressRepository)
	uc := NewAddressUsecase(addresses)
	addresses.On("FindByID", mock.Anything, int64(2)).Return(model.Address{ID: 2, UserID: 7}, nil)
	addresses.On("SetDefault", mock.Anything, int64(7), int64(2)).Return(nil)

	out, err := uc.SetDefault(ctx, 7, 2)

	require.NoError(t, err)
	assert.True(t, out.IsDefault)
}
