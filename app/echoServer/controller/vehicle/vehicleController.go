package vehicle

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	vehiclesvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/vehicle"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc vehiclesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/vehicles
func (h *Controller) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("vehicle list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/vehicles/search
func (h *Controller) Search(c echo.Context) error {
	f := model.VehicleFilter{
		Category:     c.QueryParam("category"),
		Transmission: c.QueryParam("transmission"),
		Status:       model.VehicleStatus(c.QueryParam("status")),
		Text:         c.QueryParam("q"),
	}
	if v := c.QueryParam("min_price"); v != "" {
		f.MinPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.QueryParam("max_price"); v != "" {
		f.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}

	out, err := h.Svc.Search(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("vehicle search", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/vehicles/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	v, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		}
		h.Log.Error("vehicle detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": v})
}

// POST /v1/vehicles
func (h *Controller) Create(c echo.Context) error {
	v, ok := h.bind(c)
	if !ok {
		return nil
	}
	if err := h.Svc.Create(c.Request().Context(), v); err != nil {
		h.Log.Error("vehicle create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": v})
}

// PUT /v1/vehicles/:id. Expects the complete entity, not a patch.
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	v, ok := h.bind(c)
	if !ok {
		return nil
	}
	v.ID = id
	if err := h.Svc.Update(c.Request().Context(), v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		}
		h.Log.Error("vehicle update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": v})
}

// DELETE /v1/vehicles/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		}
		h.Log.Error("vehicle delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// bind decodes and validates the payload; on failure the response is
// already written and ok is false.
func (h *Controller) bind(c echo.Context) (*model.Vehicle, bool) {
	var req VehicleReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
		return nil, false
	}
	if err := h.V.Struct(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
		return nil, false
	}
	return &model.Vehicle{
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Category:     req.Category,
		Transmission: req.Transmission,
		Capacity:     req.Capacity,
		DailyPrice:   req.DailyPrice,
		PromoPrice:   req.PromoPrice,
		DiscountPct:  req.DiscountPct,
		Status:       model.VehicleStatus(req.Status),
		BranchID:     req.BranchID,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
	}, true
}
