package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/medibook/consult/internal/consult"
)

type RouterConfig struct {
	Service *consult.Service
	Logger  zerolog.Logger
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.Service, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/patients", registerPatientHandler(cfg.Service))
	r.Post("/patients/{id}/history", addHistoryHandler(cfg.Service))
	r.Get("/patients/{id}/appointments", patientAppointmentsHandler(cfg.Service))

	r.Post("/doctors", registerDoctorHandler(cfg.Service))
	r.Get("/doctors", listDoctorsHandler(cfg.Service))
	r.Post("/doctors/{id}/availability", addAvailabilityHandler(cfg.Service))
	r.Get("/doctors/{id}/availability", doctorScheduleHandler(cfg.Service))
	r.Get("/doctors/{id}/appointments", doctorAppointmentsHandler(cfg.Service))

	r.Post("/appointments", bookAppointmentHandler(cfg.Service))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/notes", attachNotesHandler(cfg.Service))
	r.Post("/appointments/{id}/prescription", attachPrescriptionHandler(cfg.Service))

	return r
}
