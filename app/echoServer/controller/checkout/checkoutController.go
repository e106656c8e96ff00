package checkout

import (
	"log/slog"
	"net/http"

	checkoutsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/checkout"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc checkoutsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/checkout
//
// Response code encodes the aggregate outcome: 201 when every cart item
// went through, 200 when only part of the cart succeeded (per-item
// errors are listed), 422 when nothing did.
func (h *Controller) Checkout(c echo.Context) error {
	var req CheckoutReq
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

	uid, _ := c.Get("user_id").(int64)
	cartID, _ := c.Get("cart_id").(string)

	out, err := h.Svc.Checkout(c.Request().Context(), checkoutsvc.Request{
		UserID:       uid,
		CartID:       cartID,
		Start:        start,
		End:          end,
		PayerAccount: req.PayerAccount,
		Method:       req.Method,
	})
	if err != nil {
		switch checkoutsvc.Code(err) {
		case checkoutsvc.ErrEmptyCart:
			return c.JSON(http.StatusConflict, echo.Map{"message": "cart is empty"})
		case checkoutsvc.ErrBadDates:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "end date must be after start date"})
		default:
			h.Log.Error("checkout", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	switch out.Outcome() {
	case checkoutsvc.OutcomeFull:
		return c.JSON(http.StatusCreated, echo.Map{"outcome": "success", "result": out})
	case checkoutsvc.OutcomePartial:
		return c.JSON(http.StatusOK, echo.Map{"outcome": "partial", "result": out})
	default:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"outcome": "failure", "result": out})
	}
}
