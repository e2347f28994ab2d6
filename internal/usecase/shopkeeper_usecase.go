package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"
)

// ShopkeeperUsecase drives the application state machine:
//
//	none -> pending -> approved
//	          |
//	          +-> rejected -> pending (re-application)
type ShopkeeperUsecase struct {
	users    repo.UserRepository
	store    repo.ObjectStore
	logger   *slog.Logger
	maxBytes int64
}

func NewShopkeeperUsecase(users repo.UserRepository, store repo.ObjectStore, logger *slog.Logger, maxBytes int64) *ShopkeeperUsecase {
	return &ShopkeeperUsecase{users: users, store: store, logger: logger, maxBytes: maxBytes}
}

type ApplyInput struct {
	BusinessName    string
	BusinessType    string
	BusinessAddress string
	BusinessPhone   string
	BusinessEmail   string
	GSTNumber       string
	ShopDescription string
	OpeningHours    string
	Documents       []FileUpload
}

func (in ApplyInput) profile() model.ShopkeeperProfile {
	return model.ShopkeeperProfile{
		BusinessName:    strings.TrimSpace(in.BusinessName),
		BusinessType:    model.BusinessType(strings.TrimSpace(in.BusinessType)),
		BusinessAddress: strings.TrimSpace(in.BusinessAddress),
		BusinessPhone:   strings.TrimSpace(in.BusinessPhone),
		BusinessEmail:   strings.ToLower(strings.TrimSpace(in.BusinessEmail)),
		GSTNumber:       strings.TrimSpace(in.GSTNumber),
		ShopDescription: strings.TrimSpace(in.ShopDescription),
		OpeningHours:    strings.TrimSpace(in.OpeningHours),
	}
}

type ApplicationOutput struct {
	Message string     `json:"message"`
	User    UserOutput `json:"user"`
}

// Apply submits (or resubmits after rejection) the caller's own application.
func (u *ShopkeeperUsecase) Apply(ctx context.Context, caller model.Identity, userID int64, in ApplyInput) (ApplicationOutput, error) {
	if userID <= 0 {
		return ApplicationOutput{}, ErrValidation("invalid user id")
	}
	if caller.UserID != userID {
		return ApplicationOutput{}, ErrForbidden("You can only apply for your own account")
	}
	if caller.IsAdmin() {
		return ApplicationOutput{}, ErrConflict("Admins cannot apply to become shopkeepers")
	}

	profile := in.profile()
	if err := validateProfile(profile); err != nil {
		return ApplicationOutput{}, err
	}
	if len(in.Documents) == 0 {
		return ApplicationOutput{}, ErrValidation("At least one supporting document is required")
	}
	exts := make([]string, 0, len(in.Documents))
	for _, doc := range in.Documents {
		ext, err := checkUpload(doc, documentExts, u.maxBytes, "documents")
		if err != nil {
			return ApplicationOutput{}, err
		}
		exts = append(exts, ext)
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ApplicationOutput{}, ErrNotFound("User not found")
	}
	if err != nil {
		return ApplicationOutput{}, ErrInternal(err)
	}
	if err := applicationAllowed(user); err != nil {
		return ApplicationOutput{}, err
	}

	now := time.Now()
	docs := make([]model.ShopkeeperDocument, 0, len(in.Documents))
	keys := make([]string, 0, len(in.Documents))
	for i, doc := range in.Documents {
		key := newObjectKey(documentPrefix, exts[i])
		if err := u.store.Put(ctx, key, doc.Body, doc.Size, doc.ContentType); err != nil {
			releaseObjects(ctx, u.store, u.logger, "application upload aborted", keys...)
			return ApplicationOutput{}, ErrInternal(err)
		}
		keys = append(keys, key)
		docs = append(docs, model.ShopkeeperDocument{
			UserID:     userID,
			Filename:   doc.Filename,
			StorageKey: key,
			UploadedAt: now,
		})
	}

	replaced, err := u.users.SubmitApplication(ctx, userID, profile, docs)
	if err != nil {
		releaseObjects(ctx, u.store, u.logger, "application not persisted", keys...)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return ApplicationOutput{}, ErrNotFound("User not found")
		case errors.Is(err, repo.ErrStateChanged):
			return ApplicationOutput{}, ErrConflict("Shopkeeper application already submitted")
		}
		return ApplicationOutput{}, ErrInternal(err)
	}
	releaseObjects(ctx, u.store, u.logger, "documents replaced by re-application", documentKeys(replaced)...)

	out, err := u.reload(ctx, userID)
	if err != nil {
		return ApplicationOutput{}, err
	}
	return ApplicationOutput{Message: "Shopkeeper application submitted successfully", User: out}, nil
}

func applicationAllowed(user *model.User) error {
	if user.IsAdmin() {
		return ErrConflict("Admins cannot apply to become shopkeepers")
	}
	switch {
	case user.HasShopkeeperStatus(model.ShopkeeperPending):
		return ErrConflict("Shopkeeper application is already pending")
	case user.HasShopkeeperStatus(model.ShopkeeperApproved):
		return ErrConflict("User is already an approved shopkeeper")
	}
	return nil
}

func validateProfile(p model.ShopkeeperProfile) error {
	if p.BusinessName == "" || p.BusinessAddress == "" || p.BusinessPhone == "" || p.BusinessEmail == "" || p.BusinessType == "" {
		return ErrValidation("Please provide all required business fields")
	}
	if !p.BusinessType.Valid() {
		return ErrValidation("Invalid business type")
	}
	if addr, err := mail.ParseAddress(p.BusinessEmail); err != nil || addr.Address != p.BusinessEmail {
		return ErrValidation("Invalid business email")
	}
	return nil
}

// ListRequests returns pending applicants, oldest first.
func (u *ShopkeeperUsecase) ListRequests(ctx context.Context) ([]UserOutput, error) {
	users, err := u.users.ListByShopkeeperStatus(ctx, model.ShopkeeperPending)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return toUserOutputs(users), nil
}

type DecideInput struct {
	Status          string
	RejectionReason string
}

type DecisionOutput struct {
	Message  string     `json:"message"`
	User     UserOutput `json:"user"`
	Warnings []string   `json:"warnings,omitempty"`
}

// Decide approves or rejects a pending application. Only admins reach it.
func (u *ShopkeeperUsecase) Decide(ctx context.Context, userID int64, in DecideInput) (DecisionOutput, error) {
	if userID <= 0 {
		return DecisionOutput{}, ErrValidation("invalid user id")
	}
	target := model.ShopkeeperStatus(strings.TrimSpace(in.Status))
	if target != model.ShopkeeperApproved && target != model.ShopkeeperRejected {
		return DecisionOutput{}, ErrValidation("Invalid status")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return DecisionOutput{}, ErrNotFound("User not found")
	}
	if err != nil {
		return DecisionOutput{}, ErrInternal(err)
	}
	if !user.HasShopkeeperStatus(model.ShopkeeperPending) {
		return DecisionOutput{}, ErrConflict("No pending shopkeeper application for this user")
	}

	var out DecisionOutput
	switch target {
	case model.ShopkeeperApproved:
		if err := u.users.Approve(ctx, userID); err != nil {
			return DecisionOutput{}, transitionError(err)
		}
		out.Message = "Shopkeeper application approved"
	case model.ShopkeeperRejected:
		docs, err := u.users.Reject(ctx, userID, strings.TrimSpace(in.RejectionReason))
		if err != nil {
			return DecisionOutput{}, transitionError(err)
		}
		out.Message = "Shopkeeper application rejected"
		out.Warnings = releaseObjects(ctx, u.store, u.logger, "application rejected", documentKeys(docs)...)
	}

	out.User, err = u.reload(ctx, userID)
	if err != nil {
		return DecisionOutput{}, err
	}
	return out, nil
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound("User not found")
	case errors.Is(err, repo.ErrStateChanged):
		return ErrConflict("No pending shopkeeper application for this user")
	}
	return ErrInternal(err)
}

// StoredFile is an open stored object. The caller closes Body.
type StoredFile struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
}

func (u *ShopkeeperUsecase) OpenDocument(ctx context.Context, userID, documentID int64) (StoredFile, error) {
	if userID <= 0 || documentID <= 0 {
		return StoredFile{}, ErrValidation("invalid id")
	}
	doc, err := u.users.FindDocument(ctx, userID, documentID)
	if errors.Is(err, repo.ErrNotFound) {
		return StoredFile{}, ErrNotFound("Document not found")
	}
	if err != nil {
		return StoredFile{}, ErrInternal(err)
	}

	body, err := u.store.Get(ctx, doc.StorageKey)
	if errors.Is(err, repo.ErrObjectNotFound) {
		u.logger.WarnContext(ctx, "document row without stored file",
			slog.Int64("userID", userID),
			slog.String("key", doc.StorageKey),
		)
		return StoredFile{}, ErrNotFound("Document not found")
	}
	if err != nil {
		return StoredFile{}, ErrInternal(err)
	}
	return StoredFile{Body: body, Filename: doc.Filename, ContentType: contentTypeOf(doc.StorageKey)}, nil
}

func (u *ShopkeeperUsecase) reload(ctx context.Context, userID int64) (UserOutput, error) {
	user, err := u.users.FindWithDocuments(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserOutput{}, ErrNotFound("User not found")
	}
	if err != nil {
		return UserOutput{}, ErrInternal(err)
	}
	return ToUserOutput(user), nil
}

func documentKeys(docs []model.ShopkeeperDocument) []string {
	keys := make([]string, 0, len(docs))
	for _, d := range docs {
		keys = append(keys, d.StorageKey)
	}
	return keys
}
