package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"house_assignment/src/housing"
)

var DefaultOrigins = []string{"http://localhost:4321", "http://localhost:8000"}

type Solver interface {
	Solve(ctx context.Context, variant housing.Variant, snap *housing.Snapshot) (housing.Result, error)
}

type Server struct {
	solver  Solver
	logger  *zap.Logger
	metrics *Metrics
}

func NewServer(solver Solver, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{solver: solver, logger: logger, metrics: NewMetrics()}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	r.HandleFunc("/api/solve_va", s.solveHandler(housing.VariantA)).Methods("POST")
	r.HandleFunc("/api/solve_vb", s.solveHandler(housing.VariantB)).Methods("POST")

	return r
}

// Handler wraps the router with CORS for the given origins and an access log.
func (s *Server) Handler(origins []string) http.Handler {
	if len(origins) == 0 {
		origins = DefaultOrigins
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)
	access := zap.NewStdLog(s.logger.Named("access")).Writer()
	return handlers.LoggingHandler(access, cors(s.Router()))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) solveHandler(variant housing.Variant) http.HandlerFunc {
	label := string(variant)
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status := http.StatusOK
		defer func() {
			s.metrics.requests.WithLabelValues(label, strconv.Itoa(status)).Inc()
			s.metrics.duration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		}()

		var req housing.SolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			status = http.StatusBadRequest
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}
		snap := req.Snapshot()

		result, err := s.solver.Solve(r.Context(), variant, snap)
		if err != nil {
			status = http.StatusInternalServerError
			s.logger.Error("solve failed", zap.String("variant", label), zap.Error(err))
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}

		body := make(map[string]*string, len(snap.Groups))
		unassigned := 0
		for _, g := range snap.Groups {
			if houseID, ok := result.Assigned(g.ID); ok {
				body[g.ID] = &houseID
			} else {
				body[g.ID] = nil
				unassigned++
			}
		}
		s.metrics.unassigned.WithLabelValues(label).Set(float64(unassigned))
		s.logger.Info("solved",
			zap.String("variant", label),
			zap.Int("groups", len(snap.Groups)),
			zap.Int("houses", len(snap.Houses)),
			zap.Int("unassigned", unassigned),
			zap.Duration("took", time.Since(start)))
		writeJSON(w, status, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
