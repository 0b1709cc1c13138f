package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tazhate/tripbot/config"
	"github.com/tazhate/tripbot/internal/obs"
	"github.com/tazhate/tripbot/internal/service"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Response is the envelope of every JSON answer
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Pinger reports storage health.
type Pinger interface {
	Ping() error
}

type Server struct {
	cfg     *config.Config
	svc     service.Services
	log     *zap.Logger
	db      Pinger
	metrics prometheus.Gatherer
	webhook http.Handler

	server *http.Server
}

type Option func(*Server)

// WithWebhook mounts the Telegram webhook at /bot.
func WithWebhook(h http.Handler) Option {
	return func(s *Server) { s.webhook = h }
}

// WithMetrics exposes g at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.metrics = g }
}

func WithHealth(db Pinger) Option {
	return func(s *Server) { s.db = db }
}

func New(cfg *config.Config, svc service.Services, log *zap.Logger, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		log: log.Named("api"),
	}
	for _, o := range opts {
		o(s)
	}
	s.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)
	if s.metrics != nil {
		mux.Handle("GET /metrics", obs.MetricsHandler(s.metrics))
	}
	if s.webhook != nil {
		mux.Handle("POST /bot", s.webhook)
	}

	mux.HandleFunc("POST /api/login", s.login)

	// Flight reminders
	mux.HandleFunc("GET /api/reminders", s.basicAuth(s.listReminders))
	mux.HandleFunc("POST /api/reminders", s.basicAuth(s.createReminder))
	mux.HandleFunc("GET /api/reminders.ics", s.basicAuth(s.exportReminders))
	mux.HandleFunc("GET /api/reminders/{id}", s.basicAuth(s.getReminder))
	mux.HandleFunc("PUT /api/reminders/{id}", s.basicAuth(s.updateReminder))
	mux.HandleFunc("DELETE /api/reminders/{id}", s.basicAuth(s.deleteReminder))

	// Notification permission
	mux.HandleFunc("GET /api/notifications/permission", s.basicAuth(s.getPermission))
	mux.HandleFunc("POST /api/notifications/permission", s.basicAuth(s.setPermission))

	// Luggage and itinerary
	mux.HandleFunc("GET /api/luggage", s.basicAuth(s.getLuggage))
	mux.HandleFunc("POST /api/luggage/{key}/toggle", s.basicAuth(s.toggleLuggage))
	mux.HandleFunc("DELETE /api/luggage", s.basicAuth(s.resetLuggage))
	mux.HandleFunc("GET /api/itinerary", s.basicAuth(s.getItinerary))
	mux.HandleFunc("POST /api/itinerary/{key}/toggle", s.basicAuth(s.toggleItinerary))
	mux.HandleFunc("GET /api/itinerary/{day}/route", s.basicAuth(s.itineraryRoute))
	mux.HandleFunc("GET /api/itinerary/{day}/{event}/info", s.basicAuth(s.placeInfo))

	// Documents and bookings
	mux.HandleFunc("GET /api/trip-items", s.basicAuth(s.listTripItems))
	mux.HandleFunc("POST /api/trip-items", s.basicAuth(s.createTripItem))
	mux.HandleFunc("GET /api/trip-items/{id}", s.basicAuth(s.getTripItem))
	mux.HandleFunc("PUT /api/trip-items/{id}", s.basicAuth(s.updateTripItem))
	mux.HandleFunc("DELETE /api/trip-items/{id}", s.basicAuth(s.deleteTripItem))

	// Tools
	mux.HandleFunc("GET /api/currency/convert", s.basicAuth(s.convertCurrency))
	mux.HandleFunc("GET /api/currency/rate", s.basicAuth(s.exchangeRate))
	mux.HandleFunc("GET /api/flights/{number}/status", s.basicAuth(s.flightStatus))
	mux.HandleFunc("POST /api/assistant/chat", s.basicAuth(s.chat))
	mux.HandleFunc("DELETE /api/assistant/chat/{session}", s.basicAuth(s.resetChat))
	mux.HandleFunc("POST /api/calendar/sync", s.basicAuth(s.syncCalendar))

	return otelhttp.NewHandler(s.logRequests(mux), "tripbot.http")
}

func (s *Server) Start() error {
	s.log.Info("http listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// basicAuth middleware. Credentials are the configured login users.
func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !s.cfg.CheckLogin(username, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="TripBot API"`)
			s.jsonError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		obs.WithTrace(r.Context(), s.log).Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func (s *Server) jsonCreated(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func (s *Server) jsonError(w http.ResponseWriter, err string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Error: err})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			http.Error(w, "unhealthy: db", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// POST /api/login - checks credentials for the web login form
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if !s.cfg.CheckLogin(req.Username, req.Password) {
		s.jsonError(w, "Usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}
	s.jsonResponse(w, map[string]string{"username": req.Username})
}
