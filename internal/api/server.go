package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/catalog"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/config"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/engine"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/present"
)

// maxQueryBytes caps the plot description accepted per request.
const maxQueryBytes = 16 << 10

type Server struct {
	Engine  *engine.Engine
	Logger  *logrus.Entry
	Router  *chi.Mux
	Metrics *Metrics

	cfg        config.ServerConfig
	registry   *prometheus.Registry
	startTime  time.Time
	httpServer *http.Server
}

func NewServer(eng *engine.Engine, cfg config.ServerConfig, logger *logrus.Entry) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		Engine:    eng,
		Logger:    logger,
		Router:    chi.NewRouter(),
		Metrics:   NewMetrics(reg),
		cfg:       cfg,
		registry:  reg,
		startTime: time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(s.Metrics.instrument)

	s.Router.Get("/healthz", s.handleHealth)
	s.Router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.Router.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.cfg.RateLimit, time.Minute))
		}
		r.Get("/recommend", s.handleRecommend)
		r.Post("/recommend", s.handleRecommend)
		r.Get("/movies/{index}", s.handleMovie)
		r.Get("/status", s.handleStatus)
	})
}

// Start blocks serving HTTP until Shutdown is called
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.Logger.Infof("Starting API Server on %s", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type RecommendRequest struct {
	Description string `json:"description"`
}

type RecommendResponse struct {
	QueryID    string          `json:"query_id"`
	Query      string          `json:"query"`
	Normalized string          `json:"normalized"`
	Results    []present.Block `json:"results"`
}

type StatusResponse struct {
	Artifact   string `json:"artifact"`
	Movies     int    `json:"movies"`
	Vocabulary int    `json:"vocabulary"`
	TopK       int    `json:"top_k"`
	Uptime     string `json:"uptime"`
}

// Handlers

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var query string
	if r.Method == http.MethodPost {
		var req RecommendRequest
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxQueryBytes))
		if err != nil {
			if errors.As(err, new(*http.MaxBytesError)) {
				jsonResponse(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Plot description is too long"})
				return
			}
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Could not read request body"})
			return
		}
		if err := json.Unmarshal(body, &req); err != nil {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
			return
		}
		query = req.Description
	} else {
		query = r.URL.Query().Get("q")
	}

	if query == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "A plot description is required"})
		return
	}
	if len(query) > maxQueryBytes {
		jsonResponse(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Plot description is too long"})
		return
	}

	resp, err := s.Engine.Recommend(r.Context(), query)
	if err != nil {
		s.Logger.WithError(err).Error("Recommendation failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	s.Metrics.Queries.Inc()
	if resp.Normalized == "" {
		s.Metrics.EmptyQueries.Inc()
	}
	if len(resp.Results) > 0 {
		s.Metrics.TopScore.Observe(resp.Results[0].Score)
	}

	jsonResponse(w, http.StatusOK, RecommendResponse{
		QueryID:    resp.QueryID,
		Query:      resp.Query,
		Normalized: resp.Normalized,
		Results:    present.Format(s.Engine.Catalog(), resp.Matches()),
	})
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Movie index must be an integer"})
		return
	}
	rec, ok := s.Engine.Catalog().Get(idx)
	if !ok {
		jsonResponse(w, http.StatusNotFound, ErrorResponse{Error: "Movie not found"})
		return
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"index":       rec.Index,
		"name":        rec.Name,
		"genre":       rec.Genre,
		"duration":    rec.Duration,
		"rating":      present.RatingText(rec),
		"description": catalog.CleanText(rec.Description),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	a := s.Engine.Artifact
	jsonResponse(w, http.StatusOK, StatusResponse{
		Artifact:   a.Source,
		Movies:     len(a.Catalog),
		Vocabulary: a.Vectorizer.Dim(),
		TopK:       s.Engine.TopK(),
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
