// Package handlers exposes the back-office over HTTP.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rschio/pawnshop/internal/core/client"
	"github.com/rschio/pawnshop/internal/core/dashboard"
	"github.com/rschio/pawnshop/internal/core/item"
	"github.com/rschio/pawnshop/internal/core/onboarding"
	"github.com/rschio/pawnshop/internal/core/payment"
	"github.com/rschio/pawnshop/internal/core/plan"
	"github.com/rschio/pawnshop/internal/core/profile"
	"github.com/rschio/pawnshop/internal/core/subscription"
	"github.com/rschio/pawnshop/internal/core/transaction"
	"github.com/rschio/pawnshop/internal/core/user"
	"github.com/rschio/pawnshop/internal/metrics"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Config holds the dependencies of the HTTP server.
type Config struct {
	Log           *slog.Logger
	Metrics       *metrics.Metrics
	RateLimit     rate.Limit
	RateBurst     int
	Ready         func(ctx context.Context) error
	Clients       *client.Core
	Items         *item.Core
	Transactions  *transaction.Core
	Payments      *payment.Core
	Users         *user.Core
	Profiles      *profile.Core
	Plans         *plan.Core
	Subscriptions *subscription.Core
	Onboarding    *onboarding.Flow
	Dashboard     *dashboard.Core
}

// Server serves the API.
type Server struct {
	log           *slog.Logger
	metrics       *metrics.Metrics
	limiter       *ipLimiter
	ready         func(ctx context.Context) error
	clients       *client.Core
	items         *item.Core
	transactions  *transaction.Core
	payments      *payment.Core
	users         *user.Core
	profiles      *profile.Core
	plans         *plan.Core
	subscriptions *subscription.Core
	onboarding    *onboarding.Flow
	dashboard     *dashboard.Core
}

// NewServer constructs the API server. A zero RateLimit disables rate
// limiting.
func NewServer(cfg Config) *Server {
	s := Server{
		log:           cfg.Log,
		metrics:       cfg.Metrics,
		ready:         cfg.Ready,
		clients:       cfg.Clients,
		items:         cfg.Items,
		transactions:  cfg.Transactions,
		payments:      cfg.Payments,
		users:         cfg.Users,
		profiles:      cfg.Profiles,
		plans:         cfg.Plans,
		subscriptions: cfg.Subscriptions,
		onboarding:    cfg.Onboarding,
		dashboard:     cfg.Dashboard,
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if cfg.RateLimit > 0 {
		s.limiter = newIPLimiter(cfg.RateLimit, cfg.RateBurst)
	}
	return &s
}

// APIMux routes every endpoint of the API.
func APIMux(s *Server, tracer trace.Tracer) *http.ServeMux {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.middlewareWeb(tracer, pattern, h))
	}

	handle("GET /v1/clients", s.listClients)
	handle("POST /v1/clients", s.createClient)
	handle("GET /v1/clients/{id}", s.getClient)
	handle("PUT /v1/clients/{id}", s.updateClient)
	handle("DELETE /v1/clients/{id}", s.deleteClient)
	handle("GET /v1/clients/{id}/items", s.listClientItems)
	handle("GET /v1/clients/{id}/transactions", s.listClientTransactions)

	handle("GET /v1/items", s.listItems)
	handle("POST /v1/items", s.createItem)
	handle("GET /v1/items/{id}", s.getItem)
	handle("PUT /v1/items/{id}", s.updateItem)
	handle("DELETE /v1/items/{id}", s.deleteItem)

	handle("GET /v1/transactions", s.listTransactions)
	handle("POST /v1/transactions", s.createTransaction)
	handle("GET /v1/transactions/{id}", s.getTransaction)
	handle("PUT /v1/transactions/{id}", s.updateTransaction)
	handle("DELETE /v1/transactions/{id}", s.deleteTransaction)
	handle("GET /v1/transactions/{id}/payments", s.listTransactionPayments)

	handle("GET /v1/payments", s.listPayments)
	handle("POST /v1/payments", s.createPayment)
	handle("GET /v1/payments/{id}", s.getPayment)
	handle("PUT /v1/payments/{id}", s.updatePayment)
	handle("DELETE /v1/payments/{id}", s.deletePayment)

	handle("GET /v1/plans", s.listPlans)

	handle("POST /v1/users", s.createUser)
	handle("GET /v1/users/{id}", s.getUser)
	handle("GET /v1/users/{id}/profile", s.getProfile)
	handle("PUT /v1/users/{id}/profile", s.putProfile)
	handle("GET /v1/users/{id}/subscriptions", s.listSubscriptions)

	handle("GET /v1/users/{id}/onboarding", s.getOnboarding)
	handle("DELETE /v1/users/{id}/onboarding", s.resetOnboarding)
	handle("POST /v1/users/{id}/onboarding/start", s.startOnboarding)
	handle("POST /v1/users/{id}/onboarding/advance", s.advanceOnboarding)
	handle("POST /v1/users/{id}/onboarding/skip", s.skipOnboarding)
	handle("POST /v1/users/{id}/onboarding/plan", s.onboardingPlan)
	handle("POST /v1/users/{id}/onboarding/profile", s.onboardingProfile)
	handle("POST /v1/users/{id}/onboarding/sms/send", s.onboardingSendCode)
	handle("POST /v1/users/{id}/onboarding/sms/verify", s.onboardingVerifyCode)

	handle("GET /v1/dashboard", s.getDashboard)
	handle("GET /v1/readiness", s.readiness)

	mux.Handle("GET /metrics", s.metrics.Handler())

	return mux
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (StatsResp, error) {
			return toStatsResp(s.dashboard.Stats(ctx)), nil
		},
	)
}

func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (StatusResp, error) {
			if s.ready != nil {
				if err := s.ready(ctx); err != nil {
					return StatusResp{}, err
				}
			}
			return StatusResp{Status: "ok"}, nil
		},
	)
}
