package payment

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	paymentsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/payment"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc paymentsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type PayReq struct {
	PayerAccount string `json:"payer_account" validate:"required"`
	Method       string `json:"method" validate:"required"`
}

type UpdateReq struct {
	Method       string  `json:"method" validate:"required"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Status       string  `json:"status" validate:"required"`
	PayerAccount string  `json:"payer_account"`
	PayeeAccount string  `json:"payee_account"`
}

// POST /v1/reservations/:id/pay
func (h *Controller) Pay(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req PayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)

	out, err := h.Svc.Pay(c.Request().Context(), paymentsvc.PayReq{
		UserID:        uid,
		Role:          role,
		ReservationID: id,
		PayerAccount:  req.PayerAccount,
		Method:        req.Method,
	})
	if err != nil {
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		case paymentsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case paymentsvc.ErrNotPending:
			return c.JSON(http.StatusConflict, echo.Map{"message": "reservation is not pending"})
		case paymentsvc.ErrChargeFailed:
			return c.JSON(http.StatusBadGateway, echo.Map{"message": err.Error()})
		default:
			h.Log.Error("pay", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	for _, w := range out.Warnings {
		h.Log.Warn("pay", "warning", w)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": out})
}

// GET /v1/payments/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)
	p, err := h.Svc.Detail(c.Request().Context(), id, uid, role)
	if err != nil {
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "payment not found"})
		case paymentsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("payment detail", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}

// GET /v1/reservations/:id/payments
func (h *Controller) ListByReservation(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)
	out, err := h.Svc.ListByReservation(c.Request().Context(), id, uid, role)
	if err != nil {
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		case paymentsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("payment list", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/payments/my
func (h *Controller) My(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	out, err := h.Svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("payment my", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// PUT /v1/payments/:id
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

	p := &model.Payment{
		ID:           id,
		Method:       req.Method,
		Amount:       req.Amount,
		Status:       model.PaymentStatus(req.Status),
		PayerAccount: req.PayerAccount,
		PayeeAccount: req.PayeeAccount,
	}
	if err := h.Svc.Update(c.Request().Context(), p); err != nil {
		if paymentsvc.Code(err) == paymentsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "payment not found"})
		}
		h.Log.Error("payment update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}

// DELETE /v1/payments/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if paymentsvc.Code(err) == paymentsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "payment not found"})
		}
		h.Log.Error("payment delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
