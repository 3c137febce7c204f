package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ruangkampus/internal/config"
	"ruangkampus/internal/database"
	"ruangkampus/internal/events"
	"ruangkampus/internal/metrics"
	"ruangkampus/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPServer serves the loan resource collection. The collection has plain
// REST semantics: POST defaults status to Pending, PUT replaces the whole
// record, and the last write wins. Role gating lives in the consuming
// controllers, not here.
type HTTPServer struct {
	cfg    config.APIConfig
	db     *database.DB
	bus    *events.EventBus
	server *http.Server
	auth   *HTTPAuth
	logger zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, db *database.DB, bus *events.EventBus, logger *zerolog.Logger) *HTTPServer {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "http").Logger()
	}

	mux := http.NewServeMux()
	srv := &HTTPServer{cfg: cfg, db: db, bus: bus, logger: base}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/loans", srv.handleLoans)
	mux.HandleFunc("/api/v1/loans/", srv.handleLoanByID)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleLoans(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("loans")

	switch r.Method {
	case http.MethodGet:
		loans, err := s.db.ListLoans(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list loans")
			return
		}
		if loans == nil {
			loans = []models.Loan{}
		}
		writeJSON(w, http.StatusOK, loans)

	case http.MethodPost:
		loan, ok := s.decodeLoan(w, r)
		if !ok {
			return
		}
		// New records are born Pending; clients cannot inject a
		// resolved status at creation.
		if loan.Status == "" {
			loan.Status = models.StatusPending
		}
		if loan.Status != models.StatusPending {
			writeError(w, http.StatusBadRequest, "new loans must have status Pending")
			return
		}
		loan.ID = 0

		if err := s.db.CreateLoan(r.Context(), loan); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create loan")
			return
		}

		metrics.IncLoanCreated()
		_ = s.bus.PublishJSON(events.EventLoanCreated, payloadFor(loan, ""))
		writeJSON(w, http.StatusCreated, loan)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleLoanByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("loan")

	const prefix = "/api/v1/loans/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		loan, err := s.db.GetLoan(r.Context(), id)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loan)

	case http.MethodPut:
		loan, ok := s.decodeLoan(w, r)
		if !ok {
			return
		}
		if !models.ValidStatus(loan.Status) {
			writeError(w, http.StatusBadRequest, "unknown status")
			return
		}
		loan.ID = id

		prev, err := s.db.GetLoan(r.Context(), id)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}

		if err := s.db.UpdateLoan(r.Context(), loan); err != nil {
			s.writeLookupError(w, err)
			return
		}

		s.publishUpdate(prev, loan)
		writeJSON(w, http.StatusOK, loan)

	case http.MethodDelete:
		prev, err := s.db.GetLoan(r.Context(), id)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		if err := s.db.DeleteLoan(r.Context(), id); err != nil {
			s.writeLookupError(w, err)
			return
		}

		metrics.IncTransition("delete")
		_ = s.bus.PublishJSON(events.EventLoanDeleted, payloadFor(prev, ""))
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// publishUpdate distinguishes a status resolution from a field edit so that
// event consumers (notifier, sheets mirror) see the right event type.
func (s *HTTPServer) publishUpdate(prev, next *models.Loan) {
	switch {
	case prev.Status == models.StatusPending && next.Status == models.StatusApproved:
		metrics.IncTransition("approve")
		_ = s.bus.PublishJSON(events.EventLoanApproved, payloadFor(next, ""))
	case prev.Status == models.StatusPending && next.Status == models.StatusRejected:
		metrics.IncTransition("reject")
		_ = s.bus.PublishJSON(events.EventLoanRejected, payloadFor(next, ""))
	default:
		metrics.IncTransition("edit")
		_ = s.bus.PublishJSON(events.EventLoanUpdated, payloadFor(next, ""))
	}
}

func (s *HTTPServer) decodeLoan(w http.ResponseWriter, r *http.Request) (*models.Loan, bool) {
	var loan models.Loan
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&loan); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if strings.TrimSpace(loan.BorrowerName) == "" || strings.TrimSpace(loan.RoomName) == "" {
		writeError(w, http.StatusBadRequest, "borrowerName and roomName are required")
		return nil, false
	}
	return &loan, true
}

func (s *HTTPServer) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, database.ErrLoanNotFound) {
		writeError(w, http.StatusNotFound, "loan not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

func payloadFor(loan *models.Loan, changedBy string) events.LoanEventPayload {
	return events.NewLoanPayload(*loan, changedBy)
}

const requestIDHeader = "X-Request-Id"

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
