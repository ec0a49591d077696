package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kirillkom/legal-doc-simplifier/internal/config"
	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
	"github.com/kirillkom/legal-doc-simplifier/internal/core/ports"
	"github.com/kirillkom/legal-doc-simplifier/internal/observability/metrics"
	"github.com/kirillkom/legal-doc-simplifier/web"
)

type Router struct {
	chats   ports.ChatService
	pages   *web.Renderer
	metrics *metrics.Metrics

	layout              string
	defaultTemperature  float64
	sessionCookieSecure bool
	rateLimitRPS        float64
	rateLimitBurst      int
	maxInFlight         int
	accept              string
}

func NewRouter(cfg config.Config, chats ports.ChatService, pages *web.Renderer, appMetrics *metrics.Metrics) *Router {
	layout := cfg.UILayout
	if layout != config.LayoutTabs {
		layout = config.LayoutChat
	}
	return &Router{
		chats:               chats,
		pages:               pages,
		metrics:             appMetrics,
		layout:              layout,
		defaultTemperature:  domain.ClampTemperature(cfg.DefaultTemperature),
		sessionCookieSecure: cfg.SessionCookieSecure,
		rateLimitRPS:        cfg.APIRateLimitRPS,
		rateLimitBurst:      cfg.APIRateLimitBurst,
		maxInFlight:         cfg.APIMaxInFlight,
		accept:              strings.Join(domain.SupportedExtensions(), ","),
	}
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(requestIDMiddleware)
	r.Use(accessLogMiddleware)
	r.Use(chiMiddleware.Recoverer)
	if rt.metrics != nil {
		r.Use(rt.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	r.Get("/healthz", rt.healthz)
	r.Handle("/static/*", web.StaticHandler("/static/"))

	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware(rt.sessionCookieSecure))

		r.Get("/", rt.home)
		r.Post("/documents", rt.uploadToNewChat)
		r.Post("/chats", rt.newChat)
		r.Post("/session/forget", rt.forgetSession)
		r.Route("/chats/{chatID}", func(r chi.Router) {
			r.Get("/", rt.showChat)
			r.Post("/select", rt.selectChat)
			r.Post("/documents", rt.uploadToChat)
			r.Get("/tips.txt", rt.downloadTips)

			r.Group(func(r chi.Router) {
				r.Use(rateLimitMiddleware(rt.rateLimitRPS, rt.rateLimitBurst))
				r.Use(func(next http.Handler) http.Handler {
					return backpressureMiddleware(next, rt.maxInFlight, backpressureWait)
				})
				r.Post("/ask", rt.ask)
				r.Post("/commands/{mode}", rt.runCommand)
			})
		})
	})

	return r
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
