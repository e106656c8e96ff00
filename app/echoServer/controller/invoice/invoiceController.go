package invoice

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	invoicesvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/invoice"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc invoicesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type CreateReq struct {
	ReservationID int64 `json:"reservation_id" validate:"required,gt=0"`
}

type UpdateReq struct {
	Total       float64 `json:"total" validate:"required,gt=0"`
	DocumentURL *string `json:"document_url,omitempty"`
}

// GET /v1/invoices
func (h *Controller) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("invoice list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/invoices/my
func (h *Controller) My(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	out, err := h.Svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("invoice my", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/invoices/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	inv, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, invoicesvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "invoice not found"})
		}
		h.Log.Error("invoice detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)
	if role != model.RoleAdministrator && inv.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": inv})
}

// POST /v1/invoices
func (h *Controller) Create(c echo.Context) error {
	var req CreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	inv, warning, err := h.Svc.Create(c.Request().Context(), req.ReservationID)
	if err != nil {
		h.Log.Error("invoice create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	resp := echo.Map{"data": inv}
	if warning != "" {
		h.Log.Warn("invoice create", "warning", warning)
		resp["warning"] = warning
	}
	return c.JSON(http.StatusCreated, resp)
}

// PUT /v1/invoices/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	inv := &model.Invoice{ID: id, Total: req.Total, DocumentURL: req.DocumentURL}
	if err := h.Svc.Update(c.Request().Context(), inv); err != nil {
		if errors.Is(err, invoicesvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "invoice not found"})
		}
		h.Log.Error("invoice update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": inv})
}

// DELETE /v1/invoices/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, invoicesvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "invoice not found"})
		}
		h.Log.Error("invoice delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
