package reservation

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	rs "github.com/armando2sarango/cuencawheels-rest-sub000/service/reservation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/holds
func (h *Controller) CreateHold(c echo.Context) error {
	var req CreateHoldReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start_date"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end_date"})
	}

	hold, err := h.Svc.CreateHold(c.Request().Context(), req.VehicleID, start, end, req.TTLSec)
	if err != nil {
		switch rs.Code(err) {
		case rs.ErrBadDates:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "end date must be after start date"})
		case rs.ErrVehicleNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		default:
			h.Log.Error("hold create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": hold})
}

// POST /v1/reservations. Hold-based creation, terminates at PENDING.
func (h *Controller) Create(c echo.Context) error {
	var req CreateFromHoldReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	res, err := h.Svc.CreateFromHold(c.Request().Context(), req.UserID, req.HoldID)
	if err != nil {
		switch rs.Code(err) {
		case rs.ErrHoldNotActive:
			return c.JSON(http.StatusConflict, echo.Map{"message": "hold is not active"})
		case rs.ErrVehicleNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		default:
			h.Log.Error("reservation create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": res})
}

// PATCH /v1/reservations/:id/status
func (h *Controller) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	cur, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if rs.Code(err) == rs.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		}
		h.Log.Error("reservation status", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	// Clients only manage their own reservations.
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)
	if role != model.RoleAdministrator && cur.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	change, err := h.Svc.UpdateStatus(c.Request().Context(), id, model.ReservationStatus(req.Status))
	if err != nil {
		switch rs.Code(err) {
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		case rs.ErrIllegalTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": "illegal status transition"})
		default:
			h.Log.Error("reservation status", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	resp := echo.Map{"data": change.Reservation}
	if change.Warning != "" {
		h.Log.Warn("reservation status", "warning", change.Warning)
		resp["warning"] = change.Warning
	}
	return c.JSON(http.StatusOK, resp)
}

// GET /v1/reservations
func (h *Controller) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("reservation list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/reservations/my
func (h *Controller) My(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	out, err := h.Svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("reservation my", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/reservations/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	res, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if rs.Code(err) == rs.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		}
		h.Log.Error("reservation detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	// Clients only see their own reservations.
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)
	if role != model.RoleAdministrator && res.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// PUT /v1/reservations/:id
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
	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start_date"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end_date"})
	}

	res := &model.Reservation{
		ID:        id,
		StartDate: start,
		EndDate:   end,
	}
	if err := h.Svc.Update(c.Request().Context(), res); err != nil {
		switch rs.Code(err) {
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		case rs.ErrVehicleNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		case rs.ErrBadDates:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "end date must be after start date"})
		default:
			h.Log.Error("reservation update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// DELETE /v1/reservations/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if rs.Code(err) == rs.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		}
		h.Log.Error("reservation delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
