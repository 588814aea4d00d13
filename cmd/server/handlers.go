package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Simplici0/scrapvalue/internal/calculator"
	"github.com/Simplici0/scrapvalue/internal/display"
	"github.com/Simplici0/scrapvalue/internal/gesture"
	"github.com/Simplici0/scrapvalue/internal/pricing"
	"github.com/Simplici0/scrapvalue/web"
)

const (
	pricesUpdatedLayout = "January 2, 2006"
	alertHeader         = "X-Calculator-Alert"
	maxBodyBytes        = 1 << 16
)

type server struct {
	table         *pricing.Table
	sessions      *sessionStore
	limiter       *clientLimiter
	templates     *template.Template
	pricesUpdated string
	highlight     time.Duration
	log           zerolog.Logger
}

type metalOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageViewData struct {
	Metals        []metalOption
	View          calculator.View
	Layout        gesture.Layout
	PricesUpdated string
	HighlightMS   int64
}

type serverOptions struct {
	SessionSecret  string
	SessionTTL     time.Duration
	Highlight      time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	StartedAt      time.Time
}

func newServer(table *pricing.Table, opts serverOptions, logger zerolog.Logger) (*server, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, err
	}

	highlight := opts.Highlight
	if highlight <= 0 {
		highlight = calculator.DefaultHighlight
	}

	s := &server{
		table:         table,
		limiter:       newClientLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		templates:     templates,
		pricesUpdated: opts.StartedAt.Format(pricesUpdatedLayout),
		highlight:     highlight,
		log:           logger,
	}
	s.sessions = newSessionStore(opts.SessionSecret, opts.SessionTTL, func() *calculator.Controller {
		return calculator.New(table, calculator.WithHighlight(highlight), calculator.WithLogger(logger))
	})
	return s, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.log))
	r.Use(requestIDMiddleware)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)
	r.Use(s.limiter.middleware)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))
	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleHome)
	r.Post("/calculate", s.handleCalculate)
	r.Post("/swipe", s.handleSwipe)
	r.Get("/api/prices", s.handleAPIPrices)
	r.Post("/api/calculate", s.handleAPICalculate)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleHome is the app start: the visitor's form and swipe state are reset.
func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.visitorFor(w, r)
	view := v.calc.Reset()
	v.resetNavigation()

	s.renderTemplate(w, "layout.html", s.pageData(view, gesture.Stacked()))
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	trigger := calculator.Trigger(strings.TrimSpace(r.FormValue("trigger")))
	metal := pricing.ParseMetal(r.FormValue("metal"))
	weight := r.FormValue("weight")

	v := s.sessions.visitorFor(w, r)
	view := v.calc.Handle(trigger, metal, weight)
	if view.Alert != "" {
		w.Header().Set(alertHeader, view.Alert)
	}

	data := s.pageData(view, v.layout())
	if isFragmentRequest(r) {
		s.renderTemplate(w, "result", data)
		return
	}
	s.renderTemplate(w, "layout.html", data)
}

type swipeRequest struct {
	gesture.Environment
	Start gesture.Point `json:"start"`
	End   gesture.Point `json:"end"`
}

type swipeResponse struct {
	Enabled   bool              `json:"enabled"`
	Direction gesture.Direction `json:"direction"`
	gesture.Layout
}

func (s *server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	v := s.sessions.visitorFor(w, r)
	dir, enabled, layout := v.swipe(req.Environment, req.Start, req.End)

	writeJSON(w, http.StatusOK, swipeResponse{Enabled: enabled, Direction: dir, Layout: layout})
}

type priceResponse struct {
	Metal      string `json:"metal"`
	Label      string `json:"label"`
	PricePerLb string `json:"price_per_lb"`
	Display    string `json:"display"`
}

func (s *server) handleAPIPrices(w http.ResponseWriter, r *http.Request) {
	entries := s.table.Entries()
	prices := make([]priceResponse, 0, len(entries))
	for _, e := range entries {
		prices = append(prices, priceResponse{
			Metal:      string(e.Metal),
			Label:      display.MetalLabel(e.Metal),
			PricePerLb: e.PricePerLb.StringFixed(2),
			Display:    display.Price(e.PricePerLb),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"updated": s.pricesUpdated,
		"prices":  prices,
	})
}

type calculateRequest struct {
	Metal  string          `json:"metal"`
	Weight json.RawMessage `json:"weight"`
}

type calculateResponse struct {
	Metal      string         `json:"metal"`
	Weight     string         `json:"weight"`
	PricePerLb string         `json:"price_per_lb"`
	Total      string         `json:"total"`
	Display    display.Fields `json:"display"`
}

func (s *server) handleAPICalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	result, err := s.table.Compute(pricing.ParseMetal(req.Metal), rawWeight(req.Weight))
	switch {
	case errors.Is(err, pricing.ErrInvalidWeight):
		writeErrorJSON(w, http.StatusBadRequest, "invalid_weight", "Please enter a valid weight greater than zero.")
		return
	case errors.Is(err, pricing.ErrUnknownMetal):
		writeErrorJSON(w, http.StatusBadRequest, "unknown_metal", "unknown metal type")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("calculate scrap value")
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, calculateResponse{
		Metal:      string(result.Metal),
		Weight:     result.Weight.String(),
		PricePerLb: result.PricePerLb.StringFixed(2),
		Total:      result.Total.StringFixed(2),
		Display:    display.FromResult(result),
	})
}

// rawWeight accepts the weight either as a JSON string or a JSON number.
func rawWeight(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	return string(raw)
}

func (s *server) pageData(view calculator.View, layout gesture.Layout) pageViewData {
	metals := s.table.Metals()
	options := make([]metalOption, 0, len(metals))
	for _, m := range metals {
		options = append(options, metalOption{
			Value:    string(m),
			Label:    display.MetalLabel(m),
			Selected: m == view.Metal,
		})
	}

	return pageViewData{
		Metals:        options,
		View:          view,
		Layout:        layout,
		PricesUpdated: s.pricesUpdated,
		HighlightMS:   s.highlight.Milliseconds(),
	}
}

func isFragmentRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") != "" || r.Header.Get("X-Requested-With") != ""
}

func (s *server) renderTemplate(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("render template")
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErrorJSON writes a standardized JSON error response:
// {"error":{"code":"...","message":"..."}}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
