package cart

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	cartsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/cart"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type svcMock struct {
	listFn func(ctx context.Context, cartID string) ([]cartsvc.Row, error)
}

var _ cartsvc.Service = (*svcMock)(nil)

func (m *svcMock) List(ctx context.Context, cartID string) ([]cartsvc.Row, error) {
	if m.listFn != nil {
		return m.listFn(ctx, cartID)
	}
	return []cartsvc.Row{{ItemID: 1, CartID: cartID}}, nil
}
func (m *svcMock) Add(ctx context.Context, cartID string, userID, vehicleID int64) (int64, error) {
	return 0, nil
}
func (m *svcMock) Remove(ctx context.Context, userID, itemID int64) error { return nil }

func getItems(t *testing.T, role, ownCart, targetCart string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/carts/"+targetCart+"/items", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(targetCart)
	c.Set("role", role)
	c.Set("cart_id", ownCart)

	h := &Controller{Svc: &svcMock{}, V: validator.New(), Log: slog.Default()}
	require.NoError(t, h.List(c))
	return rec
}

func TestList_OwnCartOnly(t *testing.T) {
	rec := getItems(t, model.RoleClient, "cart-1", "cart-1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = getItems(t, model.RoleClient, "cart-1", "cart-2")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestList_AdminMayReadAnyCart(t *testing.T) {
	rec := getItems(t, model.RoleAdministrator, "cart-1", "cart-2")
	require.Equal(t, http.StatusOK, rec.Code)
}
