package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"isp-selfcare/internal/domain"
	"isp-selfcare/internal/domain/model"
	"isp-selfcare/internal/infra/logging"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func mapDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrPlanNotAvailable):
		writeError(w, http.StatusUnprocessableEntity, "plan not available")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, domain.ErrGatewayDeclined):
		writeError(w, http.StatusBadGateway, "payment gateway rejected the request")
	case errors.Is(err, domain.ErrVerifyInProgress):
		writeError(w, http.StatusConflict, "verification already in progress")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ---- portal ----

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.ListActive(r.Context())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		mapDomainErr(w, err)
		return
	}
	if plans == nil {
		plans = []*model.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

type initiateRequest struct {
	PlanID string `json:"plan_id"`
}

type initiateResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AmountMinor      int64  `json:"amount_minor"`
	Currency         string `json:"currency"`
}

func (s *Server) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		writeError(w, http.StatusBadRequest, "plan_id is required")
		return
	}
	payment, redirectURL, err := s.paymentUC.Initiate(r.Context(), UserID(r.Context()), req.PlanID)
	if err != nil {
		mapDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, initiateResponse{
		Reference:        payment.Reference,
		AuthorizationURL: redirectURL,
		AmountMinor:      payment.AmountMinor,
		Currency:         payment.Currency,
	})
}

// handleCallback is the gateway return URL. The customer (or the
// gateway's own retry) can hit it any number of times; Verify is
// idempotent so repeats just re-render the stored outcome.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		reference = r.URL.Query().Get("trxref")
	}
	if reference == "" {
		s.renderResult(w, http.StatusBadRequest, false, "missing payment reference")
		return
	}
	ctx := logging.WithReference(r.Context(), reference)

	// short per-reference lock so page refreshes don't fan out into
	// parallel gateway verifies
	if s.locker != nil {
		token, err := s.locker.TryLock(ctx, "verify:"+reference, 30*time.Second)
		if err != nil {
			s.renderResult(w, http.StatusConflict, false, "verification already in progress, retry shortly")
			return
		}
		defer func() { _ = s.locker.Unlock(ctx, "verify:"+reference, token) }()
	}

	payment, err := s.paymentUC.Verify(ctx, reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.renderResult(w, http.StatusNotFound, false, "unknown payment reference")
			return
		}
		logging.With(ctx, s.log).Error().Err(err).Msg("verify failed")
		s.renderResult(w, http.StatusInternalServerError, false, "verification failed, please contact support")
		return
	}

	if payment.Status == model.PaymentStatusSuccess {
		s.renderResult(w, http.StatusOK, true, "payment verified, your subscription is active")
		return
	}
	s.renderResult(w, http.StatusOK, false, fmt.Sprintf("payment %s, no subscription was activated", payment.Status))
}

func (s *Server) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	payments, err := s.paymentUC.History(r.Context(), UserID(r.Context()))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		mapDomainErr(w, err)
		return
	}
	if payments == nil {
		payments = []*model.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subUC.ActiveForUser(r.Context(), UserID(r.Context()))
	if err != nil {
		mapDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleSubscriptionHistory(w http.ResponseWriter, r *http.Request) {
	subs, err := s.subUC.History(r.Context(), UserID(r.Context()))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		mapDomainErr(w, err)
		return
	}
	if subs == nil {
		subs = []*model.Subscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// ---- admin ----

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.Overview(r.Context())
	if err != nil {
		mapDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRenewalsDue(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}
	subs, err := s.subUC.RenewalsDue(r.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		mapDomainErr(w, err)
		return
	}
	if subs == nil {
		subs = []*model.Subscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) handleAdminListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.List(r.Context())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		mapDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

type planRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"` // major units
	Cycle       string  `json:"billing_cycle"`
	Speed       string  `json:"speed"`
	DataLimit   string  `json:"data_limit"`
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	plan, err := s.planUC.Create(r.Context(), req.Name, req.Description, req.Price, req.Cycle, req.Speed, req.DataLimit)
	if err != nil {
		mapDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plan, err := s.planUC.Get(r.Context(), id)
	if err != nil {
		mapDomainErr(w, err)
		return
	}
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Name != "" {
		plan.Name = req.Name
	}
	if req.Description != "" {
		plan.Description = req.Description
	}
	if req.Price > 0 {
		plan.PriceMinor = model.MinorUnits(req.Price)
	}
	if req.Cycle != "" {
		plan.BillingCycle = model.BillingCycle(req.Cycle)
	}
	if req.Speed != "" {
		plan.Speed = req.Speed
	}
	if req.DataLimit != "" {
		plan.DataLimit = req.DataLimit
	}
	if err := s.planUC.Update(r.Context(), plan); err != nil {
		mapDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDeactivatePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.planUC.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- gateway return page ----

var resultPage = template.Must(template.New("cb").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>Payment {{if .OK}}Successful{{else}}Result{{end}}</title>
<style>
body{font-family:system-ui,Arial,sans-serif;margin:2rem;}
.card{max-width:560px;border:1px solid #ddd;border-radius:12px;padding:24px;}
.ok{color:#057a55} .fail{color:#b00020}
.btn{display:inline-block;margin-top:16px;padding:10px 16px;border-radius:8px;border:1px solid #888;text-decoration:none}
</style>
</head>
<body>
<div class="card">
  <h2 class="{{if .OK}}ok{{else}}fail{{end}}">{{if .OK}}Payment Successful{{else}}Payment Result{{end}}</h2>
  <p>{{.Msg}}</p>
  <a class="btn" href="/">Back to dashboard</a>
</div>
</body>
</html>`))

func (s *Server) renderResult(w http.ResponseWriter, code int, ok bool, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = resultPage.Execute(w, struct {
		OK  bool
		Msg string
	}{OK: ok, Msg: msg})
}
