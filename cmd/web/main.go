package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"mime"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"tokini/internal/config"
	"tokini/internal/handlers"
	"tokini/internal/storage"
	"tokini/internal/storage/memory"
	"tokini/internal/storage/sqlite"
	"tokini/internal/tokini"
	"tokini/pkg/realtime"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug(".env file not loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	log.SetLevel(cfg.Level())
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	prefs, closePrefs, err := openPreferences(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to open preference store")
	}
	defer closePrefs()

	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	sched := realtime.NewTrackedScheduler(realtime.SystemScheduler{})
	store := tokini.NewStore(tokini.Deps{
		Scheduler:     sched,
		Prefs:         prefs,
		DiceTiming:    cfg.DiceTiming(),
		NoticeTiming:  cfg.NoticeTiming(),
		IdleTTL:       cfg.SessionIdleTTL,
		SweepInterval: cfg.SessionSweep,
	})

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		log.WithError(err).Fatal("Failed to load static assets")
	}

	widgetHandler := handlers.NewWidgetHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))
		r.Get("/sw.js", handlers.ServiceWorker(staticFS))
		widgetHandler.RegisterRoutes(r)
	})
	widgetHandler.RegisterStream(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       120 * time.Second,
		// Streams end when the shutdown signal cancels their request context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.WithFields(log.Fields{
			"addr":    "http://localhost" + cfg.Addr(),
			"storage": storageName(cfg.DBPath),
		}).Info("Tokini listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server error")
		}
	}()

	<-ctx.Done()
	log.Info("Received shutdown signal, shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Server shutdown incomplete")
	}
	sessions := store.Len()
	store.Close()
	log.WithFields(log.Fields{
		"sessions":    sessions,
		"live_timers": sched.Live(),
	}).Info("Sessions closed")
}

func openPreferences(path string) (storage.Preferences, func(), error) {
	if path == "" {
		return memory.New(), func() {}, nil
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Failed to close preference store")
		}
	}, nil
}

func storageName(path string) string {
	if path == "" {
		return "memory"
	}
	return path
}

//go:embed static/*
var embeddedStatic embed.FS
