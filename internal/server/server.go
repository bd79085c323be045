// Package server exposes the engine operations over HTTP: ledger edits,
// regime and pension configuration updates, carry-forward upserts and the
// computed year summary. Every mutation recomputes the summary from source
// data; nothing is cached between requests.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pivatax/internal/calculation"
	"pivatax/internal/config"
	"pivatax/internal/ports"
)

// Server wires the engine and its collaborators into an HTTP API.
type Server struct {
	engine   *calculation.CalculationEngine
	ledger   ports.Ledger
	settings ports.SettingsStore
	carry    ports.CarryForwardStore
	catalog  *config.Catalog
}

// New creates a server over the given collaborators. catalog may be nil when
// the reference data is compiled in; the reload endpoint then returns 409.
func New(engine *calculation.CalculationEngine, ledger ports.Ledger, settings ports.SettingsStore, carry ports.CarryForwardStore, catalog *config.Catalog) *Server {
	return &Server{engine: engine, ledger: ledger, settings: settings, carry: carry, catalog: catalog}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/summary/{year}", s.handleSummary)
			r.Get("/summary/{year}/export", s.handleExport)
			r.Get("/comparison/{year}", s.handleComparison)

			r.Get("/regime", s.handleGetRegime)
			r.Put("/regime", s.handlePutRegime)
			r.Get("/pension", s.handleGetPension)
			r.Put("/pension", s.handlePutPension)

			r.Post("/years/{year}/incomes", s.handleAddIncome)
			r.Post("/years/{year}/costs", s.handleAddCost)
			r.Delete("/incomes/{entryID}", s.handleDeleteIncome)
			r.Delete("/costs/{entryID}", s.handleDeleteCost)

			r.Put("/contributions/{year}", s.handlePutContribution)
		})

		r.Post("/admin/reference/reload", s.handleReloadReference)
	})

	return r
}
