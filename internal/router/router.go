package router

import (
	"net/http"

	"chronic-care-tracker/internal/domain/patients"
	"chronic-care-tracker/internal/domain/reminders"
	"chronic-care-tracker/internal/middleware"
	"chronic-care-tracker/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	Patients  *patients.Service
	Reminders *reminders.Service
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// Rutas por módulo
	patients.RegisterRoutes(r, opts.Patients)
	reminders.RegisterRoutes(r, opts.Reminders)

	return r
}
