package http

import (
	"context"
	"net/http"
	"sync"

	"fintrack/internal/auth"
	"fintrack/internal/dashboard"
	"fintrack/internal/store"
)

type Server struct {
	http.Server
	store    store.Store
	auth     *auth.Authenticator
	composer *dashboard.Composer
	limiter  *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. Every /api route except auth requires a bearer token.
func NewServer(addr string, st store.Store, authn *auth.Authenticator) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:    st,
		auth:     authn,
		composer: dashboard.NewComposer(st, st),
		limiter:  newRateLimiter(60),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	public := func(h http.HandlerFunc) http.Handler {
		return s.withMiddleware(h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return s.withMiddleware(authn.Middleware(h))
	}

	mux.Handle("POST /api/auth/register", public(s.handleRegister))
	mux.Handle("POST /api/auth/login", public(s.handleLogin))

	mux.Handle("GET /api/dashboard", protected(s.handleDashboard))
	mux.Handle("GET /api/recommendations", protected(s.handleRecommendations))

	mux.Handle("GET /api/budget", protected(s.handleGetBudget))
	mux.Handle("PUT /api/budget", protected(s.handlePutBudget))

	mux.Handle("GET /api/expenses", protected(s.handleListExpenses))
	mux.Handle("POST /api/expenses", protected(s.handleCreateExpense))
	mux.Handle("PUT /api/expenses/{id}", protected(s.handleUpdateExpense))
	mux.Handle("DELETE /api/expenses/{id}", protected(s.handleDeleteExpense))

	mux.Handle("GET /api/income", protected(s.handleListIncomes))
	mux.Handle("POST /api/income", protected(s.handleCreateIncome))
	mux.Handle("PUT /api/income/{id}", protected(s.handleUpdateIncome))
	mux.Handle("DELETE /api/income/{id}", protected(s.handleDeleteIncome))

	mux.Handle("GET /api/savings-goals", protected(s.handleListGoals))
	mux.Handle("POST /api/savings-goals", protected(s.handleCreateGoal))
	mux.Handle("PUT /api/savings-goals/{id}", protected(s.handleUpdateGoal))
	mux.Handle("DELETE /api/savings-goals/{id}", protected(s.handleDeleteGoal))
	mux.Handle("POST /api/savings-goals/{id}/contribute", protected(s.handleContributeGoal))

	mux.Handle("GET /api/bill-reminders", protected(s.handleListBills))
	mux.Handle("GET /api/bill-reminders/upcoming", protected(s.handleUpcomingBills))
	mux.Handle("POST /api/bill-reminders", protected(s.handleCreateBill))
	mux.Handle("PUT /api/bill-reminders/{id}", protected(s.handleUpdateBill))
	mux.Handle("DELETE /api/bill-reminders/{id}", protected(s.handleDeleteBill))
	mux.Handle("PUT /api/bill-reminders/{id}/pay", protected(s.handlePayBill))
	mux.Handle("PUT /api/bill-reminders/{id}/reset", protected(s.handleResetBill))

	return s
}

// Shutdown stops the HTTP server and the rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
