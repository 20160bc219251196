// Package chi exposes the read service over a small HTTP gateway.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/skran-dev/sphindex/internal/domain"
	"github.com/skran-dev/sphindex/internal/domain/query"
	"github.com/skran-dev/sphindex/internal/logger"
	readuc "github.com/skran-dev/sphindex/internal/usecase/read"
)

// pinger checks engine connectivity for the health endpoint.
type pinger interface {
	Ping(ctx context.Context) error
}

// Server handles the HTTP surface.
type Server struct {
	read   *readuc.Service
	engine pinger
	logger *zap.Logger
}

// NewServer creates the gateway server.
func NewServer(read *readuc.Service, engine pinger, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{read: read, engine: engine, logger: logger}
}

// Routes mounts the gateway endpoints on a router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/models/{model}/search", s.handleSearch)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// searchRequest is the JSON form of a structured query.
type searchRequest struct {
	Conditions []conditionJSON `json:"conditions"`
	Order      []orderJSON     `json:"order"`
	Limit      *int            `json:"limit"`
	Offset     *int            `json:"offset"`
}

type conditionJSON struct {
	Op    string `json:"op"`
	Attr  string `json:"attr"`
	Value any    `json:"value"`
}

type orderJSON struct {
	Attr string `json:"attr"`
	Dir  string `json:"dir"`
}

type rowJSON struct {
	ID     uint64         `json:"id"`
	Weight int            `json:"weight"`
	Attrs  map[string]any `json:"attrs,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "model")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	q, err := toQuery(model, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.read.ReadMany(r.Context(), q)
	if err != nil {
		s.writeReadError(w, r, err)
		return
	}

	out := make([]rowJSON, len(rows))
	for i := range rows {
		out[i] = rowJSON{ID: rows[i].ID(), Weight: rows[i].Weight(), Attrs: rows[i].Attrs()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": out})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "engine unreachable: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeReadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownModel):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnsupportedOperator):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEngine):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.FromContext(r.Context()).Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
	}
}

func toQuery(model string, req *searchRequest) (query.Query, error) {
	conditions := make([]query.Condition, 0, len(req.Conditions))
	for _, c := range req.Conditions {
		cond, err := query.NewCondition(query.Op(c.Op), c.Attr, c.Value)
		if err != nil {
			return query.Query{}, err
		}
		conditions = append(conditions, cond)
	}

	order := make([]query.Order, 0, len(req.Order))
	for _, o := range req.Order {
		entry, err := query.NewOrder(o.Attr, query.Dir(o.Dir))
		if err != nil {
			return query.Query{}, err
		}
		order = append(order, entry)
	}

	return query.New(model, conditions, order, req.Limit, req.Offset)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
