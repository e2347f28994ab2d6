package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"shopease/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================
// Helper
// =====================

var ctx = context.Background()

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func userIdentity(id int64) model.Identity {
	return model.Identity{UserID: id, Role: model.RoleUser}
}

func adminIdentity(id int64) model.Identity {
	return model.Identity{UserID: id, Role: model.RoleAdmin}
}

func shopkeeperIdentity(id int64) model.Identity {
	s := model.ShopkeeperApproved
	return model.Identity{UserID: id, Role: model.RoleShopkeeper, ShopkeeperStatus: &s}
}

func statusPtr(s model.ShopkeeperStatus) *model.ShopkeeperStatus {
	return &s
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func upload(name, body string) FileUpload {
	return FileUpload{Filename: name, Size: int64(len(body)), Body: strings.NewReader(body)}
}

// assertStatus checks that err is an HTTPError with the given status.
func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok, "expected *HTTPError, got %T: %v", err, err)
	assert.Equal(t, status, he.Status, he.Message)
}
