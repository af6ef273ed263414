package main

import (
	"context"
	"net/http"
	"os"
	"time"

	_ "chronic-care-tracker/docs"
	"chronic-care-tracker/internal/adapters/auth/jwtauth"
	"chronic-care-tracker/internal/adapters/storage/memory"
	"chronic-care-tracker/internal/adapters/storage/postgres"
	"chronic-care-tracker/internal/domain/patients"
	"chronic-care-tracker/internal/domain/reminders"
	"chronic-care-tracker/internal/platform/logger"
	"chronic-care-tracker/internal/platform/scheduler"
	"chronic-care-tracker/internal/ports/auth"
	"chronic-care-tracker/internal/router"
)

// @title        Chronic Care Tracker API
// @version      1.0
// @description  Seguimiento de enfermedades crónicas, medicaciones y recordatorios por franja horaria.
// @BasePath     /
func main() {
	lg := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Zona operacional única: gobierna tanto la hora del clasificador como
	// la frontera de medianoche del reset.
	loc := time.Local
	if tz := os.Getenv("RESET_TZ"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			lg.Warn("invalid RESET_TZ, using local zone", map[string]any{"tz": tz})
		} else {
			loc = l
		}
	}

	// Storage: Postgres si hay DSN, in-memory si no (dev).
	var repo patients.Repository
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := postgres.Open(dsn)
		if err != nil {
			lg.Error("postgres open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		repo = postgres.NewPatientsRepo(db)
	} else {
		repo = memory.NewPatientRepo()
	}

	// Auth: verifier JWT si hay secreto; sin secreto queda modo dev
	// (header X-Debug-User-Email).
	var verifier auth.AuthVerifier
	if secret := os.Getenv("AUTH_JWT_SECRET"); secret != "" {
		v, err := jwtauth.NewVerifier(secret)
		if err != nil {
			lg.Error("jwt verifier init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = v
	}

	patientsSvc := patients.NewService(repo)
	remindersSvc := reminders.NewService(repo, lg, loc)

	// Reset diario de slots a pending; también disponible vía
	// POST /admin/reminders/reset con la misma semántica.
	job := scheduler.NewDaily(remindersSvc.ResetAllSlots, lg, loc)
	go job.Run(context.Background())

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Patients:     patientsSvc,
		Reminders:    remindersSvc,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	lg.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lg.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
