// Package mocks holds testify mocks of the repository ports, shared by usecase,
// middleware and handler tests.
package mocks

import (
	"context"
	"io"
	"time"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: UserRepository
// =====================

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepository) FindWithDocuments(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepository) ListByShopkeeperStatus(ctx context.Context, status model.ShopkeeperStatus) ([]model.User, error) {
	args := m.Called(ctx, status)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) CountByShopkeeperStatus(ctx context.Context, status model.ShopkeeperStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) UpdateProfile(ctx context.Context, userID int64, patch repo.UserProfilePatch) error {
	args := m.Called(ctx, userID, patch)
	return args.Error(0)
}

func (m *UserRepository) UpdateStatus(ctx context.Context, userID int64, status model.UserStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *UserRepository) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *UserRepository) ChangeRole(ctx context.Context, userID int64, role model.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, userID int64) ([]model.ShopkeeperDocument, error) {
	args := m.Called(ctx, userID)
	docs, _ := args.Get(0).([]model.ShopkeeperDocument)
	return docs, args.Error(1)
}

func (m *UserRepository) SubmitApplication(ctx context.Context, userID int64, profile model.ShopkeeperProfile, docs []model.ShopkeeperDocument) ([]model.ShopkeeperDocument, error) {
	args := m.Called(ctx, userID, profile, docs)
	replaced, _ := args.Get(0).([]model.ShopkeeperDocument)
	return replaced, args.Error(1)
}

func (m *UserRepository) Approve(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepository) Reject(ctx context.Context, userID int64, reason string) ([]model.ShopkeeperDocument, error) {
	args := m.Called(ctx, userID, reason)
	docs, _ := args.Get(0).([]model.ShopkeeperDocument)
	return docs, args.Error(1)
}

func (m *UserRepository) FindDocument(ctx context.Context, userID int64, documentID int64) (model.ShopkeeperDocument, error) {
	args := m.Called(ctx, userID, documentID)
	d, _ := args.Get(0).(model.ShopkeeperDocument)
	return d, args.Error(1)
}

// =====================
// Mock: ProductRepository
// =====================

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepository) Update(ctx context.Context, id int64, patch repo.ProductPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *ProductRepository) UpdateApproval(ctx context.Context, id int64, status model.ApprovalStatus, reason string) error {
	args := m.Called(ctx, id, status, reason)
	return args.Error(0)
}

func (m *ProductRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Mock: InventoryRepository
// =====================

type InventoryRepository struct {
	mock.Mock
}

func (m *InventoryRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

// =====================
// Mock: OrderRepository / OrderItemRepository
// =====================

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepository) UpdateFlags(ctx context.Context, orderID int64, patch repo.OrderFlagsPatch, now time.Time) error {
	args := m.Called(ctx, orderID, patch, now)
	return args.Error(0)
}

func (m *OrderRepository) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepository) SumRevenue(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(decimal.Decimal)
	return d, args.Error(1)
}

type OrderItemRepository struct {
	mock.Mock
}

func (m *OrderItemRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

// =====================
// Mock: CartRepository / CartItemRepository
// =====================

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepository) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepository) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepository) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepository struct {
	mock.Mock
}

func (m *CartItemRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepository) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) (model.CartItem, error) {
	args := m.Called(ctx, cartID, productID, addQty)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepository) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

// =====================
// Mock: AddressRepository
// =====================

type AddressRepository struct {
	mock.Mock
}

func (m *AddressRepository) Create(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Address)
	return list, args.Error(1)
}

func (m *AddressRepository) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepository) Update(ctx context.Context, userID int64, address model.Address) error {
	args := m.Called(ctx, userID, address)
	return args.Error(0)
}

func (m *AddressRepository) Delete(ctx context.Context, userID, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

func (m *AddressRepository) SetDefault(ctx context.Context, userID, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

// =====================
// Mock: ActivityRepository
// =====================

type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Create(ctx context.Context, activity model.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *ActivityRepository) ListRecent(ctx context.Context, filter repo.ActivityFilter) ([]model.Activity, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]model.Activity)
	return list, args.Error(1)
}

// =====================
// Fake: TransactionManager
// =====================

// TxRepos hands the same mocks to every transaction.
type TxRepos struct {
	OrdersRepo     *OrderRepository
	OrderItemsRepo *OrderItemRepository
	CartsRepo      *CartRepository
	CartItemsRepo  *CartItemRepository
	InventoryRepo  *InventoryRepository
	ProductsRepo   *ProductRepository
	ActivitiesRepo *ActivityRepository
}

func NewTxRepos() *TxRepos {
	return &TxRepos{
		OrdersRepo:     new(OrderRepository),
		OrderItemsRepo: new(OrderItemRepository),
		CartsRepo:      new(CartRepository),
		CartItemsRepo:  new(CartItemRepository),
		InventoryRepo:  new(InventoryRepository),
		ProductsRepo:   new(ProductRepository),
		ActivitiesRepo: new(ActivityRepository),
	}
}

func (r *TxRepos) Orders() repo.OrderRepository         { return r.OrdersRepo }
func (r *TxRepos) OrderItems() repo.OrderItemRepository { return r.OrderItemsRepo }
func (r *TxRepos) Carts() repo.CartRepository           { return r.CartsRepo }
func (r *TxRepos) CartItems() repo.CartItemRepository   { return r.CartItemsRepo }
func (r *TxRepos) Inventory() repo.InventoryRepository  { return r.InventoryRepo }
func (r *TxRepos) Products() repo.ProductRepository     { return r.ProductsRepo }
func (r *TxRepos) Activities() repo.ActivityRepository  { return r.ActivitiesRepo }

// TxManager runs fn directly against Repos. Committed counts the calls that returned nil.
type TxManager struct {
	Repos     *TxRepos
	Committed int
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := fn(m.Repos); err != nil {
		return err
	}
	m.Committed++
	return nil
}

// =====================
// Mock: object storage
// =====================

type ObjectStore struct {
	mock.Mock
}

func (m *ObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

func (m *ObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *ObjectStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
