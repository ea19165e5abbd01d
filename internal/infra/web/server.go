package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"isp-selfcare/internal/infra/logging"
	"isp-selfcare/internal/infra/redis"
	"isp-selfcare/internal/usecase"
)

type ctxKey string

const ctxUserID ctxKey = "user_id"

// UserID extracts the authenticated customer id set by requireUser.
func UserID(ctx context.Context) string {
	if v := ctx.Value(ctxUserID); v != nil {
		return v.(string)
	}
	return ""
}

// Server exposes the customer portal and admin HTTP API.
type Server struct {
	planUC    usecase.PlanUseCase
	paymentUC usecase.PaymentUseCase
	subUC     usecase.SubscriptionUseCase
	statsUC   usecase.StatsUseCase
	auth      *AuthManager
	locker    redis.Locker
	adminKey  string
	log       *zerolog.Logger
}

func NewServer(
	planUC usecase.PlanUseCase,
	paymentUC usecase.PaymentUseCase,
	subUC usecase.SubscriptionUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	locker redis.Locker,
	adminKey string,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		planUC:    planUC,
		paymentUC: paymentUC,
		subUC:     subUC,
		statsUC:   statsUC,
		auth:      auth,
		locker:    locker,
		adminKey:  adminKey,
		log:       &l,
	}
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestIDIntoContext)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", s.handleListPlans)
		// the gateway redirects the customer here; it carries no session
		r.Get("/billing/callback", s.handleCallback)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Post("/billing/initiate", s.handleInitiate)
			r.Get("/billing/payments", s.handlePaymentHistory)
			r.Get("/subscription", s.handleSubscription)
			r.Get("/subscription/history", s.handleSubscriptionHistory)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/stats", s.handleStats)
			r.Get("/renewals", s.handleRenewalsDue)
			r.Get("/plans", s.handleAdminListPlans)
			r.Post("/plans", s.handleCreatePlan)
			r.Put("/plans/{id}", s.handleUpdatePlan)
			r.Delete("/plans/{id}", s.handleDeactivatePlan)
		})
	})

	return r
}

// requestIDIntoContext bridges chi's request id into the logging context
// so component loggers pick it up.
func requestIDIntoContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser validates the session token and stashes the customer id.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.Subject)
		ctx = logging.WithUserID(ctx, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin provides simple bearer-key authentication for the admin API.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		hdr := r.Header.Get("Authorization")
		parts := strings.Split(hdr, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if parts[1] != s.adminKey {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
