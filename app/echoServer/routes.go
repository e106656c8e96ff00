package echoServer

import (
	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/auth"
	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/cart"
	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/checkout"
	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/invoice"
	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/payment"
	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/reservation"
	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/user"
	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/vehicle"
	sessionsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/session"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth        *auth.Controller
	User        *user.Controller
	Vehicle     *vehicle.Controller
	Cart        *cart.Controller
	Checkout    *checkout.Controller
	Reservation *reservation.Controller
	Payment     *payment.Controller
	Invoice     *invoice.Controller

	Sessions  *sessionsvc.Manager
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Browsing the fleet needs no login.
	pub.GET("/vehicles", c.Vehicle.List)
	pub.GET("/vehicles/search", c.Vehicle.Search)
	pub.GET("/vehicles/:id", c.Vehicle.Detail)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	authed.Use(SessionGuard(c.Sessions))

	admin := RequireAdmin()

	// Vehicles (back office)
	authed.POST("/vehicles", c.Vehicle.Create, admin)
	authed.PUT("/vehicles/:id", c.Vehicle.Update, admin)
	authed.DELETE("/vehicles/:id", c.Vehicle.Delete, admin)

	// Cart
	authed.GET("/carts/:id/items", c.Cart.List)
	authed.POST("/carts/:id/items", c.Cart.Add)
	authed.DELETE("/carts/:id/items/:itemID", c.Cart.Remove)

	// Checkout
	authed.POST("/checkout", c.Checkout.Checkout)

	// Holds + reservations
	authed.POST("/holds", c.Reservation.CreateHold, admin)
	authed.GET("/reservations", c.Reservation.List, admin)
	authed.GET("/reservations/my", c.Reservation.My)
	authed.GET("/reservations/:id", c.Reservation.Detail)
	authed.POST("/reservations", c.Reservation.Create, admin)
	authed.PATCH("/reservations/:id/status", c.Reservation.UpdateStatus)
	authed.PUT("/reservations/:id", c.Reservation.Update, admin)
	authed.DELETE("/reservations/:id", c.Reservation.Delete, admin)

	// Payments
	authed.POST("/reservations/:id/pay", c.Payment.Pay)
	authed.GET("/reservations/:id/payments", c.Payment.ListByReservation)
	authed.GET("/payments/my", c.Payment.My)
	authed.GET("/payments/:id", c.Payment.Detail)
	authed.PUT("/payments/:id", c.Payment.Update, admin)
	authed.DELETE("/payments/:id", c.Payment.Delete, admin)

	// Invoices
	authed.GET("/invoices", c.Invoice.List, admin)
	authed.GET("/invoices/my", c.Invoice.My)
	authed.GET("/invoices/:id", c.Invoice.Detail)
	authed.POST("/invoices", c.Invoice.Create, admin)
	authed.PUT("/invoices/:id", c.Invoice.Update, admin)
	authed.DELETE("/invoices/:id", c.Invoice.Delete, admin)

	// Users
	authed.GET("/users", c.User.List, admin)
	authed.GET("/users/:id", c.User.Detail)
	authed.PUT("/users/:id", c.User.Update)
	authed.DELETE("/users/:id", c.User.Delete, admin)
}
