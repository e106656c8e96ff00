package cart

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	cartsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/cart"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc cartsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type AddItemReq struct {
	VehicleID int64 `json:"vehicle_id" validate:"required,gt=0"`
}

// GET /v1/carts/:id/items
func (h *Controller) List(c echo.Context) error {
	cartID := c.Param("id")
	if !h.mayAccess(c, cartID) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.List(c.Request().Context(), cartID)
	if err != nil {
		h.Log.Error("cart list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/carts/:id/items
func (h *Controller) Add(c echo.Context) error {
	cartID := c.Param("id")
	if !h.mayAccess(c, cartID) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	var req AddItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	uid, _ := c.Get("user_id").(int64)
	id, err := h.Svc.Add(c.Request().Context(), cartID, uid, req.VehicleID)
	if err != nil {
		switch cartsvc.Code(err) {
		case cartsvc.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"message": "vehicle already in cart"})
		case cartsvc.ErrVehicleNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		default:
			h.Log.Error("cart add", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"item_id": id})
}

// DELETE /v1/carts/:id/items/:itemID
func (h *Controller) Remove(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil || itemID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Remove(c.Request().Context(), uid, itemID); err != nil {
		switch cartsvc.Code(err) {
		case cartsvc.ErrItemNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
		case cartsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("cart remove", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
}

// mayAccess: a client may only touch its own cart; administrators may
// touch any.
func (h *Controller) mayAccess(c echo.Context, cartID string) bool {
	if role, _ := c.Get("role").(string); role == model.RoleAdministrator {
		return true
	}
	own, _ := c.Get("cart_id").(string)
	return own != "" && own == cartID
}
