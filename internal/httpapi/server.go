package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"opinio/pkg/types"
)

// Service defines the methods required by the HTTP API layer. *app.App
// implements it.
type Service interface {
	Status() types.StatusResponse
	Ready() bool
	Version() uint64
	ViewNames() []string
	View(name string) (any, error)
	DispatchRaw(ctx context.Context, kind string, payload json.RawMessage) error
	MatchRoute(fragment string) types.RouteMatch
}

// jsonView is the view holding the whole state as indented JSON.
const jsonView = "json"

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(corsOptions()))
	}

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Get("/views", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ViewsResponse{Views: svc.ViewNames()})
	})

	r.Get("/views/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		v, err := svc.View(name)
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, types.ViewResponse{Name: name, Version: svc.Version(), Value: v})
	})

	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.View(jsonView)
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		s, _ := v.(string)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s))
	})

	r.Get("/routes/match", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.MatchRoute(r.URL.Query().Get("fragment")))
	})

	r.Post("/dispatch", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.DispatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		req.Kind = strings.TrimSpace(req.Kind)
		if req.Kind == "" {
			writeJSONError(w, http.StatusBadRequest, "kind is required")
			return
		}

		lvl := requestLogLevel(r)
		start := time.Now()
		logDispatchStart(r, lvl, req.Kind)

		ctx, cancel := dispatchContext(r)
		defer cancel()
		if err := svc.DispatchRaw(ctx, req.Kind, req.Payload); err != nil {
			status := statusFor(err)
			recordRejected(status)
			writeJSONError(w, status, err.Error())
			logDispatchEnd(r, lvl, req.Kind, status, start, err)
			return
		}
		writeJSON(w, types.DispatchResponse{Kind: req.Kind, Version: svc.Version()})
		logDispatchEnd(r, lvl, req.Kind, http.StatusOK, start, nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("closed"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

func corsOptions() cors.Options {
	methods := corsAllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	headers := corsAllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "X-Log-Level", "X-Request-Id"}
	}
	return cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
		MaxAge:         300,
	}
}
