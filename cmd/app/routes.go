package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"fxrates/internal/api"
	"fxrates/internal/api/middleware"
	"fxrates/internal/service"
)

func (app *App) initHTTP(lookup service.RateLookup) {
	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           app.router(lookup),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (app *App) router(lookup service.RateLookup) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggingMiddleware(app.logger))
	r.Use(chimiddleware.Recoverer)

	r.Route("/rates", func(r chi.Router) {
		r.Get("/latest", api.HandleGetLatestRate(lookup))
		r.Get("/historical/{date}", api.HandleGetHistoricalRate(lookup))
		r.Get("/period", api.HandleGetPeriodRates(lookup))
	})
	r.Get("/convert", api.HandleConvert(lookup))
	r.Get("/healthz", api.HandleHealthz())
	r.Get("/readyz", api.HandleReadyz(app.rdbCache, app.rdbAsynq))

	if app.cfg.Server.ServeSwagger {
		r.Get("/swagger/*", api.SwaggerUIHandler())
		r.Get("/openapi.json", api.OpenAPISpecHandler())
	}

	if app.asynqmon != nil {
		r.Handle(app.asynqmon.RootPath()+"/*", app.asynqmon)
	}

	return r
}
