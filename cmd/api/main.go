package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"novastay/internal/config"
	"novastay/internal/database"
	"novastay/internal/jobs"
	"novastay/internal/middleware"
	"novastay/internal/modules/auth"
	"novastay/internal/modules/events"
	"novastay/internal/modules/guest"
	"novastay/internal/modules/notification"
	"novastay/internal/modules/report"
	"novastay/internal/modules/reservation"
	"novastay/internal/modules/room"
	jwtsvc "novastay/internal/pkg/jwt"
	"novastay/internal/repository"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectWithRetry(ctx, cfg.DatabaseURL, 10, 2*time.Second)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	tx := repository.NewTransactor(db)
	guestRepo := repository.NewGuestRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	reportRepo := repository.NewReportRepository(sqlx.NewDb(sqlDB, database.DriverName(cfg.DatabaseURL)))

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	hub := events.NewHub(cfg.CORSOrigins)
	notifier := notification.New(cfg.SendGrid, cfg.Twilio)

	authHandler := auth.NewHandler(auth.NewService(staffRepo, j))
	guestHandler := guest.NewHandler(guest.NewService(guestRepo, reservationRepo, tx))
	roomHandler := room.NewHandler(room.NewService(roomRepo, reservationRepo, tx))
	reservationService := reservation.NewService(reservationRepo, guestRepo, roomRepo, tx, notifier, hub)
	reservationHandler := reservation.NewHandler(reservationService)
	reportHandler := report.NewHandler(report.NewService(reportRepo))
	eventsHandler := events.NewHandler(hub)

	var sweeper *jobs.Sweeper
	if cfg.SweepEnabled {
		sweeper, err = jobs.NewSweeper(reservationService, cfg.SweepSchedule)
		if err != nil {
			log.Fatal(err)
		}
		sweeper.Start()
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"
		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "unavailable"
		}
		c.JSON(status, gin.H{"status": dbStatus, "ws_clients": hub.Clients()})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		eventsHandler.RegisterRoutes(v1.Group("", middleware.QueryTokenAuth(j)))

		// protected
		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			guestHandler.RegisterRoutes(protected)
			roomHandler.RegisterRoutes(protected, middleware.AdminOnly())
			reservationHandler.RegisterRoutes(protected)
			reportHandler.RegisterRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server_started addr=%s env=%s", cfg.HTTPAddr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if sweeper != nil {
		sweeper.Stop(shutdownCtx)
	}
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server_shutdown_failed err=%v", err)
	}
	if svc, ok := notifier.(*notification.Service); ok {
		svc.Wait()
	}
	log.Println("server stopped")
}
