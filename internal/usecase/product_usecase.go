package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	defaultProductLimit = 10
	maxProductLimit     = 100
)

type ProductUsecase struct {
	products   repo.ProductRepository
	store      repo.ObjectStore
	activities *ActivityRecorder
	logger     *slog.Logger
	maxBytes   int64
}

func NewProductUsecase(
	products repo.ProductRepository,
	store repo.ObjectStore,
	activities *ActivityRecorder,
	logger *slog.Logger,
	maxBytes int64,
) *ProductUsecase {
	return &ProductUsecase{
		products:   products,
		store:      store,
		activities: activities,
		logger:     logger,
		maxBytes:   maxBytes,
	}
}

// ListProductsInput is the catalog query as read from the URL.
type ListProductsInput struct {
	Page           int
	Limit          int
	Search         string
	Category       string
	MinPrice       string
	MaxPrice       string
	Sort           string
	ApprovalStatus string
	ShopkeeperID   *int64
}

type ProductListOutput struct {
	Products      []ProductOutput `json:"products"`
	CurrentPage   int             `json:"currentPage"`
	TotalPages    int             `json:"totalPages"`
	TotalProducts int64           `json:"totalProducts"`
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	q, err := in.query()
	if err != nil {
		return ProductListOutput{}, err
	}

	items, total, err := u.products.List(ctx, q)
	if err != nil {
		return ProductListOutput{}, ErrInternal(err)
	}

	out := ProductListOutput{
		Products:      make([]ProductOutput, 0, len(items)),
		CurrentPage:   q.Page,
		TotalPages:    int(math.Ceil(float64(total) / float64(q.Limit))),
		TotalProducts: total,
	}
	for _, p := range items {
		out.Products = append(out.Products, toProductOutput(p))
	}
	return out, nil
}

func (in ListProductsInput) query() (repo.ProductListQuery, error) {
	q := repo.ProductListQuery{
		Page:         in.Page,
		Limit:        in.Limit,
		Search:       strings.TrimSpace(in.Search),
		ShopkeeperID: in.ShopkeeperID,
		Sort:         repo.ProductSort(strings.TrimSpace(in.Sort)),
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = defaultProductLimit
	}
	if q.Page < 1 {
		return q, ErrValidation("invalid page")
	}
	if q.Limit < 1 || q.Limit > maxProductLimit {
		return q, ErrValidation("invalid limit")
	}
	if len(q.Search) > 100 {
		return q, ErrValidation("search too long")
	}
	if q.Sort == "" {
		q.Sort = repo.SortNewest
	}
	if !q.Sort.Valid() {
		return q, ErrValidation("invalid sort")
	}

	if c := strings.TrimSpace(in.Category); c != "" {
		q.Category = model.Category(c)
		if !q.Category.Valid() {
			return q, ErrValidation("invalid category")
		}
	}
	if s := strings.TrimSpace(in.ApprovalStatus); s != "" {
		q.ApprovalStatus = model.ApprovalStatus(s)
		if !q.ApprovalStatus.Valid() {
			return q, ErrValidation("invalid approvalStatus")
		}
	}

	var err error
	if q.MinPrice, err = optionalPrice(in.MinPrice, "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = optionalPrice(in.MaxPrice, "maxPrice"); err != nil {
		return q, err
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return q, ErrValidation("minPrice must be <= maxPrice")
	}
	return q, nil
}

func optionalPrice(raw, field string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := parsePrice(raw, field)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parsePrice(raw, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, ErrValidation(fmt.Sprintf("%s must be a number", field))
	}
	if d.IsNegative() {
		return decimal.Zero, ErrValidation(fmt.Sprintf("%s must be >= 0", field))
	}
	return model.Money(d), nil
}

func parseStock(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, ErrValidation("stock must be an integer")
	}
	if n < 0 {
		return 0, ErrValidation("stock must be >= 0")
	}
	return n, nil
}

func (u *ProductUsecase) Get(ctx context.Context, productID int64) (ProductOutput, error) {
	p, err := u.find(ctx, productID)
	if err != nil {
		return ProductOutput{}, err
	}
	return toProductOutput(p), nil
}

func (u *ProductUsecase) find(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, ErrValidation("invalid product id")
	}
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrNotFound("Product not found")
	}
	if err != nil {
		return model.Product{}, ErrInternal(err)
	}
	return p, nil
}

// ProductFields are the multipart text fields. nil means "not sent".
type ProductFields struct {
	Name        *string
	Description *string
	Price       *string
	Stock       *string
	Category    *string
}

// patch validates the sent fields.
func (f ProductFields) patch() (repo.ProductPatch, error) {
	var out repo.ProductPatch
	if f.Name != nil {
		name := strings.TrimSpace(*f.Name)
		if name == "" {
			return repo.ProductPatch{}, ErrValidation("name is required")
		}
		out.Name = &name
	}
	if f.Description != nil {
		desc := strings.TrimSpace(*f.Description)
		if desc == "" {
			return repo.ProductPatch{}, ErrValidation("description is required")
		}
		out.Description = &desc
	}
	if f.Price != nil {
		price, err := parsePrice(*f.Price, "price")
		if err != nil {
			return repo.ProductPatch{}, err
		}
		out.Price = &price
	}
	if f.Stock != nil {
		stock, err := parseStock(*f.Stock)
		if err != nil {
			return repo.ProductPatch{}, err
		}
		out.Stock = &stock
	}
	if f.Category != nil {
		category := model.Category(strings.TrimSpace(*f.Category))
		if !category.Valid() {
			return repo.ProductPatch{}, ErrValidation("invalid category")
		}
		out.Category = &category
	}
	return out, nil
}

// apply validates the sent fields and copies them onto p.
func (f ProductFields) apply(p *model.Product) error {
	patch, err := f.patch()
	if err != nil {
		return err
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	return nil
}

func (f ProductFields) complete() bool {
	return f.Name != nil && f.Description != nil && f.Price != nil && f.Stock != nil && f.Category != nil
}

// Create stores the image first and the row second; a failed insert
// releases the image again.
func (u *ProductUsecase) Create(ctx context.Context, caller model.Identity, fields ProductFields, image *FileUpload) (ProductOutput, error) {
	if !caller.CanSell() {
		return ProductOutput{}, ErrForbidden("Only admins and approved shopkeepers can create products")
	}
	if !fields.complete() {
		return ProductOutput{}, ErrValidation("Please provide all required fields")
	}
	var p model.Product
	if err := fields.apply(&p); err != nil {
		return ProductOutput{}, err
	}
	if image == nil {
		return ProductOutput{}, ErrValidation("Please upload an image")
	}
	ext, err := checkUpload(*image, imageExts, u.maxBytes, "image")
	if err != nil {
		return ProductOutput{}, err
	}

	key := newObjectKey(imagePrefix, ext)
	if err := u.store.Put(ctx, key, image.Body, image.Size, image.ContentType); err != nil {
		return ProductOutput{}, ErrInternal(err)
	}

	p.Image = imageURL(key)
	p.ImageKey = key
	p.ShopkeeperID = caller.UserID
	p.ApprovalStatus = model.ApprovalPending
	if caller.IsAdmin() {
		p.ApprovalStatus = model.ApprovalApproved
	}

	created, err := u.products.Create(ctx, p)
	if err != nil {
		releaseObjects(ctx, u.store, u.logger, "product insert failed", key)
		return ProductOutput{}, ErrInternal(err)
	}

	pid, uid := created.ID, caller.UserID
	u.activities.Record(ctx, model.Activity{
		Type:        model.ActivityProductCreated,
		Description: fmt.Sprintf("New product created: %s", created.Name),
		UserID:      &uid,
		ProductID:   &pid,
	})
	return toProductOutput(created), nil
}

type MutationOutput struct {
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

type UpdateProductOutput struct {
	Product  ProductOutput `json:"product"`
	Warnings []string      `json:"warnings,omitempty"`
}

func (u *ProductUsecase) Update(ctx context.Context, caller model.Identity, productID int64, fields ProductFields, image *FileUpload) (UpdateProductOutput, error) {
	p, err := u.find(ctx, productID)
	if err != nil {
		return UpdateProductOutput{}, err
	}
	if !caller.IsOwnerOrAdmin(p.ShopkeeperID) {
		return UpdateProductOutput{}, ErrForbidden("Not authorized to update this product")
	}

	patch, err := fields.patch()
	if err != nil {
		return UpdateProductOutput{}, err
	}

	var newKey, oldKey string
	if image != nil {
		ext, err := checkUpload(*image, imageExts, u.maxBytes, "image")
		if err != nil {
			return UpdateProductOutput{}, err
		}
		newKey = newObjectKey(imagePrefix, ext)
		if err := u.store.Put(ctx, newKey, image.Body, image.Size, image.ContentType); err != nil {
			return UpdateProductOutput{}, ErrInternal(err)
		}
		oldKey = p.ImageKey
		url := imageURL(newKey)
		patch.Image, patch.ImageKey = &url, &newKey
	}

	if !patch.Empty() {
		if err := u.products.Update(ctx, p.ID, patch); err != nil {
			releaseObjects(ctx, u.store, u.logger, "product update failed", newKey)
			if errors.Is(err, repo.ErrNotFound) {
				return UpdateProductOutput{}, ErrNotFound("Product not found")
			}
			return UpdateProductOutput{}, ErrInternal(err)
		}
	}

	var out UpdateProductOutput
	out.Warnings = releaseObjects(ctx, u.store, u.logger, "product image replaced", oldKey)

	fresh, err := u.find(ctx, p.ID)
	if err != nil {
		return UpdateProductOutput{}, err
	}

	// only an edit that sent stock counts as a stock change
	if patch.Stock != nil && *patch.Stock != p.Stock {
		pid, uid := p.ID, caller.UserID
		u.activities.Record(ctx, model.Activity{
			Type:        model.ActivityProductStockUpdated,
			Description: fmt.Sprintf("Stock updated for %s: %d -> %d", fresh.Name, p.Stock, *patch.Stock),
			UserID:      &uid,
			ProductID:   &pid,
		})
	}

	out.Product = toProductOutput(fresh)
	return out, nil
}

// Delete soft-deletes the row; the image goes afterwards and may only warn.
func (u *ProductUsecase) Delete(ctx context.Context, caller model.Identity, productID int64) (MutationOutput, error) {
	p, err := u.find(ctx, productID)
	if err != nil {
		return MutationOutput{}, err
	}
	if !caller.IsOwnerOrAdmin(p.ShopkeeperID) {
		return MutationOutput{}, ErrForbidden("Not authorized to delete this product")
	}

	if err := u.products.SoftDelete(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return MutationOutput{}, ErrNotFound("Product not found")
		}
		return MutationOutput{}, ErrInternal(err)
	}

	return MutationOutput{
		Message:  "Product removed",
		Warnings: releaseObjects(ctx, u.store, u.logger, "product deleted", p.ImageKey),
	}, nil
}

type ApprovalInput struct {
	Status          string
	RejectionReason string
}

// SetApproval is the admin moderation switch. Visibility is not tied to it.
func (u *ProductUsecase) SetApproval(ctx context.Context, productID int64, in ApprovalInput) (ProductOutput, error) {
	status := model.ApprovalStatus(strings.TrimSpace(in.Status))
	if !status.Valid() {
		return ProductOutput{}, ErrValidation("Invalid approval status")
	}
	if _, err := u.find(ctx, productID); err != nil {
		return ProductOutput{}, err
	}

	reason := ""
	if status == model.ApprovalRejected {
		reason = strings.TrimSpace(in.RejectionReason)
	}
	if err := u.products.UpdateApproval(ctx, productID, status, reason); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ProductOutput{}, ErrNotFound("Product not found")
		}
		return ProductOutput{}, ErrInternal(err)
	}
	return u.Get(ctx, productID)
}

// OpenImage streams a product image by its public path below /images/.
func (u *ProductUsecase) OpenImage(ctx context.Context, name string) (StoredFile, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, "\\/") {
		return StoredFile{}, ErrNotFound("Image not found")
	}
	key := ImageKeyFromPath(name)
	body, err := u.store.Get(ctx, key)
	if errors.Is(err, repo.ErrObjectNotFound) {
		return StoredFile{}, ErrNotFound("Image not found")
	}
	if err != nil {
		return StoredFile{}, ErrInternal(err)
	}
	return StoredFile{Body: body, Filename: name, ContentType: contentTypeOf(key)}, nil
}
