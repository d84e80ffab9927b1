package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/profilepilot/internal/application/analysis"
	domain "github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/middleware"
	"github.com/bryanwahyu/profilepilot/internal/presentation"
)

const maxBodyBytes = 64 << 10

// Options wires the cross-cutting pieces of the router.
type Options struct {
	Oracle         middleware.Oracle
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
	Health         map[string]middleware.HealthChecker
	Ready          map[string]middleware.HealthChecker
}

type Router struct {
	svc *appanalysis.Service
}

func NewRouter(svc *appanalysis.Service, opt Options) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	// Identify runs first so the request log carries the user id.
	if opt.Oracle != nil {
		mux.Use(middleware.Identify(opt.Oracle))
	}
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(opt.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opt.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.DefaultUserHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	mux.Get("/health", middleware.HealthHandler(opt.Health))
	mux.Get("/ready", middleware.ReadinessHandler(opt.Ready))
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Get("/dashboard/{analysisId}", r.handleDashboard)

	mux.Route("/api", func(rt chi.Router) {
		rt.Get("/roles", r.wrap(r.handleRoles))
		rt.Get("/analyses/{analysisId}", r.wrap(r.handleGet))
		rt.Group(func(rt chi.Router) {
			rt.Use(middleware.RequireUser)
			rt.Get("/analyses", r.wrap(r.handleList))
			if opt.RateLimiter != nil {
				rt.With(middleware.RateLimitMiddleware(opt.RateLimiter)).Post("/analyze", r.wrap(r.handleAnalyze))
			} else {
				rt.Post("/analyze", r.wrap(r.handleAnalyze))
			}
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps errors to status codes. Internal diagnostics never reach the client.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request", "fields": verr.Fields})
		case errors.Is(err, domain.ErrValidation):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request"})
		case errors.Is(err, domain.ErrAuthRequired):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		default:
			log.Printf("request failed method=%s path=%s user=%s err=%v", req.Method, req.URL.Path, middleware.UserFromContext(req.Context()), err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /api/analyze
// Body: {"githubUrl": "...", "role": "...", "skills": ["..."], "projects": [...]}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body domain.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return domain.Field("body", "must be a JSON object")
	}

	id, err := r.svc.Create(req.Context(), appanalysis.CreateCommand{
		UserID:  middleware.UserFromContext(req.Context()),
		Request: body,
	})
	countCreate(err)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"analysisId": string(id)})
	return nil
}

func countCreate(err error) {
	switch {
	case err == nil:
		middleware.IncrementAnalysesCreated()
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrAuthRequired):
	default:
		middleware.IncrementAnalysesFailed()
		if errors.Is(err, domain.ErrUpstream) || errors.Is(err, domain.ErrMalformedResponse) || errors.Is(err, domain.ErrConfiguration) {
			middleware.IncrementGenerationFailures()
		}
	}
}

// GET /api/analyses/{analysisId}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	d, ok := r.load(req)
	if !ok {
		return domain.ErrNotFound
	}
	writeJSON(w, http.StatusOK, d)
	return nil
}

// GET /api/analyses?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.svc.ListOwned(req.Context(), middleware.UserFromContext(req.Context()),
		middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /api/roles
func (r *Router) handleRoles(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string][]string{"roles": domain.Roles})
	return nil
}

// GET /dashboard/{analysisId}
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) {
	d, ok := r.load(req)
	if !ok {
		renderHTML(w, http.StatusNotFound, "notfound.html", nil)
		return
	}
	renderHTML(w, http.StatusOK, "dashboard.html", d)
}

func (r *Router) load(req *http.Request) (presentation.Dashboard, bool) {
	id := chi.URLParam(req, "analysisId")
	if middleware.ValidateAnalysisID(id) != nil {
		return presentation.Dashboard{}, false
	}
	return presentation.Load(req.Context(), r.svc, middleware.UserFromContext(req.Context()), domain.ID(id))
}
