package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pivatax/internal/domain"
	"pivatax/internal/output"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusCreated, map[string]string{"userId": uuid.NewString()})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, year, ok := userYear(w, r)
	if !ok {
		return
	}
	result, err := s.engine.Calculate(r.Context(), userID, year)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	userID, year, ok := userYear(w, r)
	if !ok {
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" {
		name = "pdf"
	}
	f := output.GetFormatterByName(name)
	if f == nil {
		http.Error(w, "unsupported format: "+name, http.StatusBadRequest)
		return
	}
	result, err := s.engine.Calculate(r.Context(), userID, year)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := f.Format(result)
	if err != nil {
		writeError(w, err)
		return
	}
	switch f.Name() {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
	case "json":
		w.Header().Set("Content-Type", "application/json")
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.Write(data)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	userID, year, ok := userYear(w, r)
	if !ok {
		return
	}
	cmp, err := s.engine.CompareRegimes(r.Context(), userID, year)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}

// Configuration

func (s *Server) handleGetRegime(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.settings.RegimeConfig(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

// handlePutRegime replaces the regime configuration wholesale. When the
// target regime differs from the stored one, the stored config first goes
// through the transition function (clearing or defaulting regime-specific
// fields), then any fields in the request body override the result.
func (s *Server) handlePutRegime(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var incoming domain.RegimeConfig
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	next := incoming
	current, err := s.settings.RegimeConfig(r.Context(), userID)
	var nf *domain.NotFoundError
	switch {
	case err == nil:
		transitioned := current.TransitionTo(incoming.TaxRegime)
		if incoming.SubstituteRate != nil {
			transitioned.SubstituteRate = incoming.SubstituteRate
		}
		if incoming.ProfitabilityRate != nil {
			transitioned.ProfitabilityRate = incoming.ProfitabilityRate
		}
		next = transitioned
	case errors.As(err, &nf):
		// First configuration: take defaults for the simplified regime
		// the same way the transition function would.
		next = domain.RegimeConfig{TaxRegime: domain.RegimeStandard}.TransitionTo(incoming.TaxRegime)
		next.TaxRegime = incoming.TaxRegime
		if incoming.SubstituteRate != nil {
			next.SubstituteRate = incoming.SubstituteRate
		}
		if incoming.ProfitabilityRate != nil {
			next.ProfitabilityRate = incoming.ProfitabilityRate
		}
	default:
		writeError(w, err)
		return
	}

	if errs := domain.ValidateRegimeConfig(next); len(errs) > 0 {
		writeError(w, errs)
		return
	}
	if err := s.settings.SaveRegimeConfig(r.Context(), userID, next); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, next)
}

func (s *Server) handleGetPension(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.settings.PensionConfig(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handlePutPension(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var incoming domain.PensionSchemeConfig
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	next := incoming
	current, err := s.settings.PensionConfig(r.Context(), userID)
	var nf *domain.NotFoundError
	switch {
	case err == nil:
		transitioned := current.TransitionTo(incoming.PensionSystem)
		if incoming.INPSRateType != "" {
			transitioned.INPSRateType = incoming.INPSRateType
		}
		if incoming.GuildFundID != "" {
			transitioned.GuildFundID = incoming.GuildFundID
		}
		if incoming.ManualContributionRate != nil {
			transitioned.ManualContributionRate = incoming.ManualContributionRate
		}
		if incoming.ManualMinimumContribution != nil {
			transitioned.ManualMinimumContribution = incoming.ManualMinimumContribution
		}
		if incoming.ManualFixedAnnualContributions != nil {
			transitioned.ManualFixedAnnualContributions = incoming.ManualFixedAnnualContributions
		}
		next = transitioned
	case errors.As(err, &nf):
		// First configuration: store the body as-is after validation.
	default:
		writeError(w, err)
		return
	}

	if err := s.engine.ValidatePensionConfig(next); err != nil {
		writeError(w, err)
		return
	}
	if err := s.settings.SavePensionConfig(r.Context(), userID, next); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, next)
}

// Ledger

type incomePayload struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

type costPayload struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Deductible  bool            `json:"deductible"`
	Description string          `json:"description"`
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	userID, year, ok := userYear(w, r)
	if !ok {
		return
	}
	var p incomePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if p.Amount.IsNegative() {
		writeError(w, domain.ValidationErrors{{Field: "amount", Message: "cannot be negative"}})
		return
	}
	entry := &domain.IncomeEntry{Amount: p.Amount, Date: p.Date, Description: p.Description}
	if err := s.ledger.AddIncome(r.Context(), userID, year, entry); err != nil {
		writeError(w, err)
		return
	}
	s.respondWithRecomputation(w, r, userID, year, http.StatusCreated, entry)
}

func (s *Server) handleAddCost(w http.ResponseWriter, r *http.Request) {
	userID, year, ok := userYear(w, r)
	if !ok {
		return
	}
	var p costPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if p.Amount.IsNegative() {
		writeError(w, domain.ValidationErrors{{Field: "amount", Message: "cannot be negative"}})
		return
	}
	entry := &domain.CostEntry{Amount: p.Amount, Date: p.Date, Deductible: p.Deductible, Description: p.Description}
	if err := s.ledger.AddCost(r.Context(), userID, year, entry); err != nil {
		writeError(w, err)
		return
	}
	s.respondWithRecomputation(w, r, userID, year, http.StatusCreated, entry)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := s.ledger.DeleteIncome(r.Context(), userID, chi.URLParam(r, "entryID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCost(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := s.ledger.DeleteCost(r.Context(), userID, chi.URLParam(r, "entryID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Carry-forward

type contributionPayload struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) handlePutContribution(w http.ResponseWriter, r *http.Request) {
	userID, year, ok := userYear(w, r)
	if !ok {
		return
	}
	var p contributionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if p.Amount.IsNegative() {
		writeError(w, domain.ValidationErrors{{Field: "amount", Message: "cannot be negative"}})
		return
	}
	if err := s.carry.UpsertPreviousYearContribution(r.Context(), userID, year, p.Amount); err != nil {
		writeError(w, err)
		return
	}
	// The record for year Y feeds year Y+1's base; recompute that year.
	s.respondWithRecomputation(w, r, userID, year+1, http.StatusOK,
		&domain.PreviousYearContribution{UserID: userID, Year: year, Amount: p.Amount})
}

// Reference data

func (s *Server) handleReloadReference(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		http.Error(w, "reference data is compiled in; nothing to reload", http.StatusConflict)
		return
	}
	if err := s.catalog.Reload(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// helpers

// respondWithRecomputation answers a successful mutation with the changed
// entity plus the freshly recomputed year summary. A summary that cannot be
// computed yet (regime not configured, say) is reported alongside, never
// silently dropped: the mutation itself has already been persisted.
func (s *Server) respondWithRecomputation(w http.ResponseWriter, r *http.Request, userID string, year int, status int, entity any) {
	body := map[string]any{"entity": entity}
	if result, err := s.engine.Calculate(r.Context(), userID, year); err == nil {
		body["summary"] = result
	} else {
		body["summaryError"] = err.Error()
	}
	respondJSON(w, status, body)
}

func userYear(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	userID := chi.URLParam(r, "userID")
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 3000 {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return "", 0, false
	}
	return userID, year, true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeError maps the error taxonomy onto HTTP statuses: validation and
// inconsistency errors are 422 with field detail, missing data is 404,
// broken reference data is 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		verrs  domain.ValidationErrors
		verr   *domain.ValidationError
		cerr   *domain.ConfigurationInconsistencyError
		nferr  *domain.NotFoundError
		bcerr  *domain.BracketConfigurationError
		fields []fieldError
	)
	switch {
	case errors.As(err, &verrs):
		for _, v := range verrs {
			fields = append(fields, fieldError{Field: v.Field, Message: v.Message})
		}
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fields})
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": []fieldError{{Field: verr.Field, Message: verr.Message}}})
	case errors.As(err, &cerr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": []fieldError{{Field: cerr.Field, Message: cerr.Message}}})
	case errors.As(err, &nferr):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": nferr.Error()})
	case errors.As(err, &bcerr):
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": bcerr.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
