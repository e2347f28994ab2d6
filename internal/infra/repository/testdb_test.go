package repository

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"shopease/internal/config"
	"shopease/internal/domain/model"
	"shopease/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ctx = context.Background()

// openTestDB connects to TEST_DATABASE_DSN and migrates into a fresh schema
// that is dropped when the test ends. Without the variable the test is skipped.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_DATABASE_DSN"))
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	admin, err := db.Connect(ctx, config.Config{DatabaseURL: dsn, LogLevel: "info"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(admin) })

	schema := "t_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	require.NoError(t, admin.Exec("CREATE SCHEMA "+schema).Error)
	t.Cleanup(func() { _ = admin.Exec("DROP SCHEMA " + schema + " CASCADE").Error })

	gormDB, err := db.Connect(ctx, config.Config{DatabaseURL: withSearchPath(dsn, schema), LogLevel: "info"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gormDB) })

	require.NoError(t, db.Migrate(ctx, gormDB))
	return gormDB
}

// withSearchPath pins every pooled connection to schema; both URL and
// keyword/value DSNs are accepted by pgx.
func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}

func seedUser(t *testing.T, gormDB *gorm.DB, email string, role model.Role, status *model.ShopkeeperStatus) *model.User {
	t.Helper()
	u := &model.User{
		Name:             "Test " + email,
		Email:            email,
		PasswordHash:     "x",
		Role:             role,
		Status:           model.UserStatusActive,
		ShopkeeperStatus: status,
	}
	require.NoError(t, gormDB.Create(u).Error)
	return u
}

func seedProduct(t *testing.T, gormDB *gorm.DB, stock int64) model.Product {
	t.Helper()
	p := model.Product{
		Name:           "Kettle",
		Description:    "Steel kettle",
		Price:          decimal.RequireFromString("10.00"),
		Stock:          stock,
		Category:       model.CategoryHome,
		Image:          "/images/k.png",
		ImageKey:       "images/k.png",
		ShopkeeperID:   1,
		ApprovalStatus: model.ApprovalApproved,
	}
	require.NoError(t, gormDB.Create(&p).Error)
	return p
}

func seedOrder(t *testing.T, gormDB *gorm.DB, userID int64, key *string) model.Order {
	t.Helper()
	o := model.Order{
		UserID: userID,
		Shipping: model.ShippingAddress{
			FullName: "Ann Lee", Address: "2 Side St", City: "Pune", PostalCode: "411001", Country: "India",
		},
		PaymentMethod:  "cod",
		ItemsPrice:     decimal.RequireFromString("10.00"),
		TaxPrice:       decimal.RequireFromString("2.80"),
		TotalPrice:     decimal.RequireFromString("12.80"),
		IdempotencyKey: key,
	}
	require.NoError(t, gormDB.Create(&o).Error)
	return o
}

func statusPtr(s model.ShopkeeperStatus) *model.ShopkeeperStatus {
	return &s
}
