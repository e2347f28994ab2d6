package model

// Identity is the caller snapshot resolved once per request.
type Identity struct {
	UserID           int64
	Role             Role
	ShopkeeperStatus *ShopkeeperStatus
}

func IdentityOf(u *User) Identity {
	return Identity{UserID: u.ID, Role: u.Role, ShopkeeperStatus: u.ShopkeeperStatus}
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i Identity) IsApprovedShopkeeper() bool {
	return i.Role == RoleShopkeeper && i.ShopkeeperStatus != nil && *i.ShopkeeperStatus == ShopkeeperApproved
}

// CanSell covers product creation and edits.
func (i Identity) CanSell() bool {
	return i.IsAdmin() || i.IsApprovedShopkeeper()
}

func (i Identity) IsOwnerOrAdmin(ownerID int64) bool {
	return i.IsAdmin() || (i.UserID > 0 && i.UserID == ownerID)
}
