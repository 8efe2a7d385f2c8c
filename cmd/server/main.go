package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/harishn/shopapi/internal/config"
	"github.com/harishn/shopapi/internal/email"
	"github.com/harishn/shopapi/internal/es"
	"github.com/harishn/shopapi/internal/handlers"
	"github.com/harishn/shopapi/internal/logging"
	mwauth "github.com/harishn/shopapi/internal/middleware/auth"
	loggingmw "github.com/harishn/shopapi/internal/middleware/logging"
	"github.com/harishn/shopapi/internal/mykafka"
	"github.com/harishn/shopapi/internal/repo"
	authsvc "github.com/harishn/shopapi/internal/service/auth"
	"github.com/harishn/shopapi/internal/tokens"
	httpserver "github.com/harishn/shopapi/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	codec := tokens.NewCodec(
		[]byte(configuration.JWT_SECRET),
		time.Duration(configuration.ACCESS_TTL_MIN)*time.Minute,
		time.Duration(configuration.REFRESH_TTL_DAYS)*24*time.Hour,
	)
	users := &repo.UserRepo{DB: db}
	svc := &authsvc.Service{Repo: users, Codec: codec}

	deps := httpserver.Deps{
		Gate:            &mwauth.Gate{Svc: svc},
		AuthHandler:     &handlers.AuthHandler{Svc: svc, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{DB: db},
		AdminHandler:    &handlers.AdminProductHandler{DB: db, Producer: prod, Index: "product"},
		CartHandler:     &handlers.CartHandler{DB: db, Producer: prod},
		FavoriteHandler: &handlers.FavoriteHandler{DB: db},
	}

	if configuration.ES_URL != "" {
		client, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		deps.AdminHandler.ES = client
		deps.SearchHandler = &handlers.SearchHandler{ES: client, Index: "product"}
	}

	var notifier *email.Notifier
	if configuration.RESEND_API_KEY != "" {
		sender := email.NewResendSender(configuration.RESEND_API_KEY, configuration.EMAIL_FROM)
		notifier = email.NewNotifier(sender, logger, 128)
		notifier.Start()
		deps.EmailHandler = &handlers.EmailHandler{Notifier: notifier}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if notifier != nil {
		notifier.Close()
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
