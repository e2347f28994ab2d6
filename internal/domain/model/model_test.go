package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_RoundsToCents(t *testing.T) {
	assert.Equal(t, "10.13", Money(decimal.RequireFromString("10.125")).String())
	assert.Equal(t, "3.36", Money(decimal.RequireFromString("12").Mul(TaxRate)).String())
}

func TestDecimal_MarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(struct {
		Price decimal.Decimal `json:"price"`
	}{Price: decimal.RequireFromString("19.99")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":19.99}`, string(b))
}

func TestOrderItem_LineTotal(t *testing.T) {
	it := OrderItem{UnitPriceSnapshot: decimal.RequireFromString("2.50"), Quantity: 3}
	assert.True(t, it.LineTotal().Equal(decimal.RequireFromString("7.5")))
}

func TestUser_HasShopkeeperStatus(t *testing.T) {
	u := User{}
	assert.False(t, u.HasShopkeeperStatus(ShopkeeperPending))

	s := ShopkeeperPending
	u.ShopkeeperStatus = &s
	assert.True(t, u.HasShopkeeperStatus(ShopkeeperPending))
	assert.False(t, u.HasShopkeeperStatus(ShopkeeperApproved))
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, CategoryBooks.Valid())
	assert.False(t, Category("toys").Valid())
	assert.True(t, BusinessWholesale.Valid())
	assert.False(t, BusinessType("").Valid())
	assert.True(t, RoleShopkeeper.Valid())
	assert.False(t, Role("ADMIN").Valid())
	assert.True(t, ApprovalRejected.Valid())
}

func TestIdentity_Capabilities(t *testing.T) {
	approved := ShopkeeperApproved
	pending := ShopkeeperPending

	cases := []struct {
		name     string
		id       Identity
		admin    bool
		canSell  bool
		ownsSelf bool
	}{
		{"user", Identity{UserID: 1, Role: RoleUser}, false, false, true},
		{"admin", Identity{UserID: 2, Role: RoleAdmin}, true, true, true},
		{"approved shopkeeper", Identity{UserID: 3, Role: RoleShopkeeper, ShopkeeperStatus: &approved}, false, true, true},
		{"shopkeeper role with stale status", Identity{UserID: 4, Role: RoleShopkeeper, ShopkeeperStatus: &pending}, false, false, true},
		{"pending user", Identity{UserID: 5, Role: RoleUser, ShopkeeperStatus: &pending}, false, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.admin, tc.id.IsAdmin())
			assert.Equal(t, tc.canSell, tc.id.CanSell())
			assert.Equal(t, tc.ownsSelf, tc.id.IsOwnerOrAdmin(tc.id.UserID))
			assert.Equal(t, tc.admin, tc.id.IsOwnerOrAdmin(999))
		})
	}
}

func TestIdentity_ZeroValueOwnsNothing(t *testing.T) {
	assert.False(t, Identity{}.IsOwnerOrAdmin(0))
}
