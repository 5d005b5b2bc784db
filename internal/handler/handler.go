package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ddj1226/SpendSense/internal/analytics"
	"github.com/ddj1226/SpendSense/internal/middleware"
	"github.com/ddj1226/SpendSense/internal/repository"
	"github.com/ddj1226/SpendSense/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type exchangeRequest struct {
	PublicToken string `json:"public_token"`
}

type goalRequest struct {
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetDate   string          `json:"target_date"`
}

// Health reports that the API is up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "API is running"})
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "first_name, email and password are required")
		return
	}

	res, err := h.svc.Register(req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateLinkToken starts a bank link session
func (h *Handler) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	token, err := h.svc.CreateLinkToken(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"link_token": token})
}

// ExchangePublicToken completes a bank link
func (h *Handler) ExchangePublicToken(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.PublicToken == "" {
		writeDetail(w, http.StatusBadRequest, "public_token is required")
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.svc.ExchangePublicToken(r.Context(), userID, req.PublicToken); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Success"})
}

// Transactions returns balances and recent transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	activity, err := h.svc.Activity(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// ForecastGoal projects the user's savings goal
func (h *Handler) ForecastGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !h.decode(w, r, &req) {
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	res, err := h.svc.ForecastGoal(r.Context(), userID, req.TargetAmount, req.TargetDate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AnalyzeSpending returns a spending review of the last 60 days
func (h *Handler) AnalyzeSpending(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	analysis, err := h.svc.AnalyzeSpending(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// writeError maps service errors to HTTP statuses
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *analytics.ValidationError
	switch {
	case errors.As(err, &verr):
		writeDetail(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrEmailTaken):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, service.ErrBankNotConnected):
		writeDetail(w, http.StatusBadRequest, "Connect bank first")
	case errors.Is(err, repository.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrBankUnavailable):
		writeDetail(w, http.StatusServiceUnavailable, "Bank integration is not configured")
	case errors.Is(err, service.ErrBankData):
		middleware.LoggerFromContext(r.Context(), h.log).WithError(err).Error("Bank data request failed")
		writeDetail(w, http.StatusInternalServerError, "Failed to fetch bank data")
	default:
		middleware.LoggerFromContext(r.Context(), h.log).WithError(err).Error("Request failed")
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
