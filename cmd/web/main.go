package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phishaware/internal/app"
	"phishaware/internal/content"
	"phishaware/internal/db"
)

func main() {
	if err := run(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := app.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, dbConn, err := loadContent(ctx, cfg)
	if err != nil {
		return fmt.Errorf("content error: %w", err)
	}
	if dbConn != nil {
		defer dbConn.Close()
	}

	r, err := app.NewRouter(cfg, store, dbConn)
	if err != nil {
		return fmt.Errorf("router error: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("phishaware web listening on %s (%d questions)", cfg.HTTPAddr, store.QuestionCount())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		log.Printf("server stopped")
	}
	return nil
}

// loadContent picks Postgres, then a content file, then the built-in course.
func loadContent(ctx context.Context, cfg app.Config) (*content.Store, *sql.DB, error) {
	switch {
	case cfg.ContentDSN != "":
		dbConn, err := db.OpenPostgresWithConfig(ctx, cfg.ContentDSN, db.PostgresConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifeMins) * time.Minute,
		})
		if err != nil {
			return nil, nil, err
		}
		c, err := content.LoadPostgres(ctx, dbConn)
		if err != nil {
			_ = dbConn.Close()
			return nil, nil, fmt.Errorf("load content from postgres: %w", err)
		}
		store, err := content.NewStore(c)
		if err != nil {
			_ = dbConn.Close()
			return nil, nil, err
		}
		log.Printf("content loaded from postgres")
		return store, dbConn, nil

	case cfg.ContentFile != "":
		c, err := content.LoadFile(cfg.ContentFile)
		if err != nil {
			return nil, nil, err
		}
		store, err := content.NewStore(c)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("content loaded from %s", cfg.ContentFile)
		return store, nil, nil

	default:
		store, err := content.NewStore(content.Default())
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}
