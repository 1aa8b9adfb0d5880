package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nvasic/lastminute-booking/internal/config"
	"github.com/nvasic/lastminute-booking/internal/database"
	"github.com/nvasic/lastminute-booking/internal/handler"
	"github.com/nvasic/lastminute-booking/internal/mailer"
	"github.com/nvasic/lastminute-booking/internal/middleware"
	"github.com/nvasic/lastminute-booking/internal/queue"
	"github.com/nvasic/lastminute-booking/internal/repository"
	"github.com/nvasic/lastminute-booking/internal/router"
	"github.com/nvasic/lastminute-booking/migrations"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := migrations.Apply(ctx, db); err != nil {
		cancel()
		log.Fatalf("apply migrations: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	destinations := repository.NewDestinationRepo(db)
	accommodations := repository.NewAccommodationRepo(db)
	availability := repository.NewGuideAvailabilityRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	reviews := repository.NewReviewRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(cfg, destinations, accommodations, reviews)
	ownerH := handler.NewOwnerHandler(accommodations, bookings)
	guideH := handler.NewGuideHandler(availability, destinations, bookings)
	bookingH := handler.NewBookingHandler(cfg, bookings, payments, accommodations, availability, destinations, users)
	adminH := handler.NewAdminHandler(bookings, payments, accommodations, destinations, users)
	reviewH := handler.NewReviewHandler(reviews, bookings)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	metrics := middleware.NewHTTPMetrics("lastminute_booking")
	e.Use(metrics.Middleware())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Redis backs both the public response cache and the token bucket.
	// The server still runs without it; both middlewares degrade to
	// pass-through on connection errors.
	rdb := config.NewRedisClient()
	var cacheMW echo.MiddlewareFunc
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled && rdb != nil {
		cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
	}
	if rlCfg := config.LoadRateLimitConfig(); rlCfg.Enabled && rdb != nil {
		e.Use(middleware.NewTokenBucket(rlCfg, rdb))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheMW)
	router.RegisterTraveler(e, bookingH, reviewH, cfg.JWTSecret)
	router.RegisterShared(e, bookingH, cfg.JWTSecret)
	router.RegisterOwner(e, ownerH, cfg.JWTSecret)
	router.RegisterGuide(e, guideH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Notification consumer: reads booking.created and sends the guest
	// confirmation and owner notification emails.  It reconnects on its
	// own; a broker outage never blocks the API.
	sender := mailer.New(config.LoadSMTP())
	go func() {
		if err := queue.StartBookingConsumer(sender, queue.Renderer{
			RenderGuest: mailer.RenderGuestConfirmation,
			RenderOwner: mailer.RenderOwnerNotification,
		}); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
