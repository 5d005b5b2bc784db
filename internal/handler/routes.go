package handler

import (
	"net/http"

	"github.com/ddj1226/SpendSense/internal/middleware"
	"github.com/gorilla/mux"
)

// Routes registers every API route on a new router
func (h *Handler) Routes(jwtSecret string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.Health).Methods(http.MethodGet)

	// Public routes
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(jwtSecret, h.log))
	api.HandleFunc("/plaid/create_link_token", h.CreateLinkToken).Methods(http.MethodPost)
	api.HandleFunc("/plaid/exchange_public_token", h.ExchangePublicToken).Methods(http.MethodPost)
	api.HandleFunc("/plaid/transactions", h.Transactions).Methods(http.MethodPost)
	api.HandleFunc("/goals/forecast", h.ForecastGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/analyze_spending", h.AnalyzeSpending).Methods(http.MethodPost)

	return r
}
