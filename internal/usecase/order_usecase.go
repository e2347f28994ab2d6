package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps one product's quantity in an order or cart, merged lines included.
const MaxLineQuantity = 10000

// totals from the client may differ from ours by rounding only
var priceTolerance = decimal.RequireFromString("0.01")

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	addresses repo.AddressRepository
}

func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, addresses repo.AddressRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, addresses: addresses}
}

type OrderLineInput struct {
	ProductID int64
	Quantity  int64
}

type ShippingInput struct {
	FullName   string
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

type CreateOrderInput struct {
	// empty means "check out the server-side cart"
	Items           []OrderLineInput
	ShippingAddress *ShippingInput
	AddressID       int64
	PaymentMethod   string
	TotalPrice      *decimal.Decimal
	IdempotencyKey  string
}

// errReplay aborts the transaction when another request already created the
// order for the same idempotency key.
var errReplay = errors.New("idempotent replay")

// Create places an order. Stock decrement, line snapshots, the order row, cart
// cleanup and the order_created activity commit or roll back together.
// created is false when an earlier order with the same key is returned.
func (u *OrderUsecase) Create(ctx context.Context, userID int64, in CreateOrderInput) (out OrderOutput, created bool, err error) {
	if userID <= 0 {
		return OrderOutput{}, false, ErrUnauthenticated("Not authorized, no token")
	}

	shipping, err := u.shippingFor(ctx, userID, in)
	if err != nil {
		return OrderOutput{}, false, err
	}

	payment := strings.TrimSpace(in.PaymentMethod)
	if payment == "" {
		payment = "cod"
	}
	if len(payment) > 50 {
		return OrderOutput{}, false, ErrValidation("invalid paymentMethod")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return OrderOutput{}, false, ErrValidation("invalid idempotency key")
	}

	lines, err := mergeLines(in.Items)
	if err != nil {
		return OrderOutput{}, false, err
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if key != "" {
			existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err != nil {
				return ErrInternal(err)
			}
			if found {
				out = toOrderOutput(existing, existing.Items)
				return nil
			}
		}

		var cart *model.Cart
		if len(lines) == 0 {
			c, fromCart, err := cartLines(ctx, r, userID)
			if err != nil {
				return err
			}
			cart, lines = c, fromCart
		}

		items, itemsPrice, err := reserveLines(ctx, r, lines)
		if err != nil {
			return err
		}

		taxPrice := model.Money(itemsPrice.Mul(model.TaxRate))
		totalPrice := model.Money(itemsPrice.Add(taxPrice))
		if in.TotalPrice != nil && in.TotalPrice.Sub(totalPrice).Abs().GreaterThan(priceTolerance) {
			return ErrValidation(fmt.Sprintf("Total price mismatch: expected %s", totalPrice.StringFixed(2)))
		}

		now := time.Now()
		order := model.Order{
			UserID:        userID,
			Shipping:      shipping,
			PaymentMethod: payment,
			ItemsPrice:    itemsPrice,
			TaxPrice:      taxPrice,
			TotalPrice:    totalPrice,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if key != "" {
			order.IdempotencyKey = &key
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			if key != "" && errors.Is(err, repo.ErrDuplicate) {
				return errReplay
			}
			return ErrInternal(err)
		}
		order.ID = orderID

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return ErrInternal(err)
		}

		if cart != nil {
			if err := r.Carts().Clear(ctx, cart.ID); err != nil {
				return ErrInternal(err)
			}
			if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
				return ErrInternal(err)
			}
		}

		uid := userID
		if err := r.Activities().Create(ctx, model.Activity{
			Type:        model.ActivityOrderCreated,
			Description: fmt.Sprintf("New order placed: #%d (%s)", orderID, totalPrice.StringFixed(2)),
			UserID:      &uid,
			OrderID:     &orderID,
			CreatedAt:   now,
		}); err != nil {
			return ErrInternal(err)
		}

		out = toOrderOutput(order, items)
		created = true
		return nil
	})

	if errors.Is(err, errReplay) {
		existing, found, err := u.orders.FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return OrderOutput{}, false, ErrInternal(err)
		}
		if !found {
			return OrderOutput{}, false, ErrConflict("idempotency key conflict")
		}
		return toOrderOutput(existing, existing.Items), false, nil
	}
	if err != nil {
		return OrderOutput{}, false, err
	}
	return out, created, nil
}

func (u *OrderUsecase) shippingFor(ctx context.Context, userID int64, in CreateOrderInput) (model.ShippingAddress, error) {
	if in.AddressID > 0 {
		addr, err := u.addresses.FindByID(ctx, in.AddressID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.ShippingAddress{}, ErrNotFound("Address not found")
		}
		if err != nil {
			return model.ShippingAddress{}, ErrInternal(err)
		}
		// someone else's address does not exist for this caller
		if addr.UserID != userID {
			return model.ShippingAddress{}, ErrNotFound("Address not found")
		}
		return addr.ToShipping(), nil
	}

	if in.ShippingAddress == nil {
		return model.ShippingAddress{}, ErrValidation("Please provide a shipping address")
	}
	s := in.ShippingAddress
	out := model.ShippingAddress{
		FullName:   strings.TrimSpace(s.FullName),
		Address:    strings.TrimSpace(s.Address),
		City:       strings.TrimSpace(s.City),
		State:      strings.TrimSpace(s.State),
		PostalCode: strings.TrimSpace(s.PostalCode),
		Country:    strings.TrimSpace(s.Country),
		Phone:      strings.TrimSpace(s.Phone),
	}
	if out.FullName == "" || out.Address == "" || out.City == "" || out.PostalCode == "" || out.Country == "" {
		return model.ShippingAddress{}, ErrValidation("Please provide all shipping address fields")
	}
	return out, nil
}

// mergeLines folds repeated products into one line, keeping first-seen order.
func mergeLines(in []OrderLineInput) ([]OrderLineInput, error) {
	out := make([]OrderLineInput, 0, len(in))
	index := map[int64]int{}
	for _, l := range in {
		if l.ProductID <= 0 {
			return nil, ErrValidation("invalid product id")
		}
		if l.Quantity < 1 {
			return nil, ErrValidation("quantity must be at least 1")
		}
		if l.Quantity > MaxLineQuantity {
			return nil, errQuantityTooLarge()
		}
		if i, ok := index[l.ProductID]; ok {
			if out[i].Quantity > MaxLineQuantity-l.Quantity {
				return nil, errQuantityTooLarge()
			}
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out, nil
}

func errQuantityTooLarge() error {
	return ErrValidation(fmt.Sprintf("quantity must be at most %d", MaxLineQuantity))
}

func cartLines(ctx context.Context, r repo.TxRepos, userID int64) (*model.Cart, []OrderLineInput, error) {
	cart, err := r.Carts().FindActiveByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil, ErrValidation("No order items")
	}
	if err != nil {
		return nil, nil, ErrInternal(err)
	}
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return nil, nil, ErrInternal(err)
	}
	if len(items) == 0 {
		return nil, nil, ErrValidation("No order items")
	}

	lines := make([]OrderLineInput, 0, len(items))
	for _, it := range items {
		lines = append(lines, OrderLineInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return &cart, lines, nil
}

// reserveLines decrements stock and freezes name, price and image per line.
func reserveLines(ctx context.Context, r repo.TxRepos, lines []OrderLineInput) ([]model.OrderItem, decimal.Decimal, error) {
	items := make([]model.OrderItem, 0, len(lines))
	total := decimal.Zero

	for _, l := range lines {
		if l.Quantity < 1 || l.Quantity > MaxLineQuantity {
			return nil, decimal.Zero, errQuantityTooLarge()
		}
		p, err := r.Products().FindByID(ctx, l.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, decimal.Zero, ErrNotFound(fmt.Sprintf("Product not found: %d", l.ProductID))
		}
		if err != nil {
			return nil, decimal.Zero, ErrInternal(err)
		}

		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.ProductID, l.Quantity)
		if err != nil {
			return nil, decimal.Zero, ErrInternal(err)
		}
		if !ok {
			return nil, decimal.Zero, ErrValidation(fmt.Sprintf("Insufficient stock for %s", p.Name))
		}

		item := model.OrderItem{
			ProductID:           p.ID,
			ProductNameSnapshot: p.Name,
			UnitPriceSnapshot:   p.Price,
			ImageSnapshot:       p.Image,
			Quantity:            l.Quantity,
		}
		items = append(items, item)
		total = total.Add(item.LineTotal())
	}
	return items, model.Money(total), nil
}

func (u *OrderUsecase) ListMine(ctx context.Context, userID int64) ([]OrderOutput, error) {
	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal(err)
	}
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o, o.Items))
	}
	return outs, nil
}

// Get hides other users' orders behind 404.
func (u *OrderUsecase) Get(ctx context.Context, caller model.Identity, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, ErrValidation("invalid order id")
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrNotFound("Order not found")
	}
	if err != nil {
		return OrderOutput{}, ErrInternal(err)
	}
	if !caller.IsOwnerOrAdmin(o.UserID) {
		return OrderOutput{}, ErrNotFound("Order not found")
	}
	return toOrderOutput(o, o.Items), nil
}
