package usecase

import (
	"context"
	"errors"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase serves /api/cart. Lines keep no price; the live product price
// applies until checkout freezes it into the order.
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type CartOutput struct {
	Items      []CartItemOutput `json:"items"`
	ItemsPrice decimal.Decimal  `json:"itemsPrice"`
	TaxPrice   decimal.Decimal  `json:"taxPrice"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart creates an empty active cart on first use.
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, ErrInternal(err)
	}
	return u.buildCart(ctx, cart.ID)
}

// AddToCart merges quantities for a product already in the cart.
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartOutput, error) {
	if in.ProductID <= 0 {
		return CartOutput{}, ErrValidation("invalid productId")
	}
	if in.Quantity < 1 {
		return CartOutput{}, ErrValidation("quantity must be at least 1")
	}
	if in.Quantity > MaxLineQuantity {
		return CartOutput{}, errQuantityTooLarge()
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, ErrNotFound("Product not found")
	}
	if err != nil {
		return CartOutput{}, ErrInternal(err)
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, ErrInternal(err)
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, ErrInternal(err)
	}
	var existingQty int64
	for _, it := range items {
		if it.ProductID == in.ProductID {
			existingQty = it.Quantity
			break
		}
	}
	if existingQty > MaxLineQuantity-in.Quantity {
		return CartOutput{}, errQuantityTooLarge()
	}
	if existingQty+in.Quantity > p.Stock {
		return CartOutput{}, ErrValidation("Insufficient stock for " + p.Name)
	}

	if _, err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartOutput{}, ErrInternal(err)
	}
	return u.buildCart(ctx, cart.ID)
}

func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartOutput, error) {
	if cartItemID <= 0 {
		return CartOutput{}, ErrValidation("invalid id")
	}
	if in.Quantity < 1 {
		return CartOutput{}, ErrValidation("quantity must be at least 1")
	}
	if in.Quantity > MaxLineQuantity {
		return CartOutput{}, errQuantityTooLarge()
	}

	item, err := u.ownedItem(ctx, userID, cartItemID)
	if err != nil {
		return CartOutput{}, err
	}

	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, ErrNotFound("Product not found")
	}
	if err != nil {
		return CartOutput{}, ErrInternal(err)
	}
	if in.Quantity > p.Stock {
		return CartOutput{}, ErrValidation("Insufficient stock for " + p.Name)
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartOutput{}, ErrNotFound("Cart item not found")
		}
		return CartOutput{}, ErrInternal(err)
	}
	return u.buildCart(ctx, item.CartID)
}

func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) (CartOutput, error) {
	if cartItemID <= 0 {
		return CartOutput{}, ErrValidation("invalid id")
	}

	item, err := u.ownedItem(ctx, userID, cartItemID)
	if err != nil {
		return CartOutput{}, err
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartOutput{}, ErrNotFound("Cart item not found")
		}
		return CartOutput{}, ErrInternal(err)
	}
	return u.buildCart(ctx, item.CartID)
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (CartOutput, error) {
	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return emptyCart(), nil
	}
	if err != nil {
		return CartOutput{}, ErrInternal(err)
	}
	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return CartOutput{}, ErrInternal(err)
	}
	return emptyCart(), nil
}

// ownedItem reports someone else's line as not found.
func (u *CartUsecase) ownedItem(ctx context.Context, userID, cartItemID int64) (model.CartItem, error) {
	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return model.CartItem{}, ErrInternal(err)
	}
	if !owned {
		return model.CartItem{}, ErrNotFound("Cart item not found")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, ErrNotFound("Cart item not found")
	}
	if err != nil {
		return model.CartItem{}, ErrInternal(err)
	}
	return item, nil
}

func (u *CartUsecase) buildCart(ctx context.Context, cartID int64) (CartOutput, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartOutput{}, ErrInternal(err)
	}

	out := emptyCart()
	total := decimal.Zero
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			// product deleted since it was added
			continue
		}
		if err != nil {
			return CartOutput{}, ErrInternal(err)
		}

		line := p.Price.Mul(decimal.NewFromInt(it.Quantity))
		out.Items = append(out.Items, CartItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Stock:     p.Stock,
			Quantity:  it.Quantity,
			LineTotal: model.Money(line),
		})
		total = total.Add(line)
	}

	out.ItemsPrice = model.Money(total)
	out.TaxPrice = model.Money(out.ItemsPrice.Mul(model.TaxRate))
	out.TotalPrice = model.Money(out.ItemsPrice.Add(out.TaxPrice))
	return out, nil
}

func emptyCart() CartOutput {
	return CartOutput{
		Items:      []CartItemOutput{},
		ItemsPrice: decimal.Zero,
		TaxPrice:   decimal.Zero,
		TotalPrice: decimal.Zero,
	}
}
