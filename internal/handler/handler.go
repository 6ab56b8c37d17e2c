package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/finance-service/internal/middleware"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc  *service.Service
	log  *logrus.Logger
	ping func(ctx context.Context) error
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// SetHealthCheck makes /health report the result of ping
func (h *Handler) SetHealthCheck(ping func(ctx context.Context) error) {
	h.ping = ping
}

// Router wires every route. Routes other than registration, login and
// health require a bearer token.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(h.log), middleware.Recovery(h.log))

	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(h.svc))
	authRouter.HandleFunc("/password", h.ChangePassword).Methods("PUT")
	authRouter.HandleFunc("/categories", h.Categories).Methods("GET")
	authRouter.HandleFunc("/types", h.Types).Methods("GET")
	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions/{id:[0-9]+}", h.GetTransaction).Methods("GET")
	authRouter.HandleFunc("/transactions/{id:[0-9]+}", h.UpdateTransaction).Methods("PATCH")
	authRouter.HandleFunc("/transactions/{id:[0-9]+}", h.DeleteTransaction).Methods("DELETE")
	authRouter.HandleFunc("/reports/summary", h.Summary).Methods("GET")
	authRouter.HandleFunc("/reports/summary.xml", h.SummaryXML).Methods("GET")
	authRouter.HandleFunc("/reports/statement.xml", h.StatementXML).Methods("GET")
	return r
}

// Health reports whether the server and its database are up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			h.log.Warnf("Health check failed: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP statuses. Unclassified errors are
// logged and reported without detail.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.log.WithField("request_id", middleware.RequestIDFromContext(r.Context())).
			Errorf("Request failed: %v", err)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case models.IsValidation(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", models.ErrInvalidInput, err)
	}
	return nil
}

func userID(r *http.Request) (int64, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return 0, models.ErrInvalidCredentials
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("transaction %w", models.ErrNotFound)
	}
	return id, nil
}

func queryInt(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", models.ErrInvalidInput, key)
	}
	return &v, nil
}

func queryDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := service.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// periodFromQuery reads year and month, or from and to. No parameters
// means all time.
func periodFromQuery(r *http.Request) (models.Period, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return models.Period{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return models.Period{}, err
	}
	if from != nil || to != nil {
		if from == nil || to == nil {
			return models.Period{}, fmt.Errorf("%w: from and to must be given together", models.ErrInvalidPeriod)
		}
		return models.NewPeriod(*from, *to)
	}

	year, err := queryInt(r, "year")
	if err != nil {
		return models.Period{}, err
	}
	month, err := queryInt(r, "month")
	if err != nil {
		return models.Period{}, err
	}
	switch {
	case year == nil && month == nil:
		return models.AllTime(), nil
	case year == nil:
		return models.Period{}, fmt.Errorf("%w: month requires year", models.ErrInvalidPeriod)
	case *year < 1 || *year > 9999:
		return models.Period{}, fmt.Errorf("%w: year out of range", models.ErrInvalidPeriod)
	case month == nil:
		return models.YearPeriod(int(*year)), nil
	case *month < 1 || *month > 12:
		return models.Period{}, fmt.Errorf("%w: month must be between 1 and 12", models.ErrInvalidPeriod)
	}
	return models.MonthPeriod(int(*year), time.Month(*month)), nil
}
