// Package main CuencaWheels API.
//
// @title           CuencaWheels Rental API
// @version         1.0
// @description     Car rental service (fleet, carts, checkout, reservations, payments, invoices).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer"
	authctrl "github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/auth"
	cartctrl "github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/cart"
	checkoutctrl "github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/checkout"
	invoicectrl "github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/invoice"
	paymentctrl "github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/payment"
	reservationctrl "github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/reservation"
	userctrl "github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/user"
	vehiclectrl "github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/controller/vehicle"
	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/validation"
	"github.com/armando2sarango/cuencawheels-rest-sub000/config"
	cartrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/cart"
	holdrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/hold"
	invoicerepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/invoice"
	paygaterepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/paygate"
	paymentrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/payment"
	reservationrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/reservation"
	userrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/user"
	vehiclerepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/vehicle"
	authsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/auth"
	cartsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/cart"
	checkoutsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/checkout"
	invoicesvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/invoice"
	paymentsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/payment"
	reservationsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/reservation"
	sessionsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/session"
	usersvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/user"
	vehiclesvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/vehicle"
	"github.com/armando2sarango/cuencawheels-rest-sub000/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	vr := vehiclerepo.New(db)
	cr := cartrepo.New(db)
	rr := reservationrepo.New(db)
	hr := holdrepo.New(db)
	pr := paymentrepo.New(db)
	ir := invoicerepo.New(db)
	gw := paygaterepo.NewHTTP(cfg.PaygateBaseURL, cfg.PaygateAPIKey)

	// services
	sessions := sessionsvc.NewManager(time.Duration(cfg.SessionTTLMin)*time.Minute, nil)
	as := authsvc.New(ur, sessions, cfg.JWTSecret)
	us := usersvc.New(ur)
	vs := vehiclesvc.New(vr)
	cs := cartsvc.New(cr, vr)
	is := invoicesvc.New(ir, rr, gw)
	rsvc := reservationsvc.New(db, rr, hr, vr)
	ps := paymentsvc.New(db, pr, rr, vr, is, gw)
	cks := checkoutsvc.New(db, cr, vr, rr, pr, is, gw)

	// expired holds go back to the pool every minute
	cleaner := reservationsvc.NewCleaner(hr)
	cr3 := cron.New()
	if _, err := cr3.AddFunc("@every 1m", func() {
		n, err := cleaner.ReleaseExpired(context.Background())
		if err != nil {
			log.Error("hold cleanup failed", "err", err)
			return
		}
		if n > 0 {
			log.Info("released expired holds", "count", n)
		}
	}); err != nil {
		log.Error("cron setup failed", "err", err)
		os.Exit(1)
	}
	cr3.Start()
	defer cr3.Stop()

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}
	vehicleC := &vehiclectrl.Controller{Svc: vs, V: v, Log: log}
	cartC := &cartctrl.Controller{Svc: cs, V: v, Log: log}
	checkoutC := &checkoutctrl.Controller{Svc: cks, V: v, Log: log}
	reservationC := &reservationctrl.Controller{Svc: rsvc, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, V: v, Log: log}
	invoiceC := &invoicectrl.Controller{Svc: is, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		User:        userC,
		Vehicle:     vehicleC,
		Cart:        cartC,
		Checkout:    checkoutC,
		Reservation: reservationC,
		Payment:     paymentC,
		Invoice:     invoiceC,

		Sessions:  sessions,
		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
