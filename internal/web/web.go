// Package web serves the dashboard, admin and login pages. The pages keep no
// server-side session; the admin page talks to the REST API with a bearer
// token held in browser storage.
package web

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"cob-tracker/internal/model"
	"cob-tracker/internal/stats"
)

type Lister interface {
	ListCobs(ctx context.Context) ([]model.Cob, error)
}

type Pages struct {
	store   Lister
	tmpl    *Templates
	apiBase string
	log     *slog.Logger
}

func New(st Lister, apiBase string, log *slog.Logger) (*Pages, error) {
	t, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	if apiBase == "" {
		apiBase = "/api"
	}
	return &Pages{store: st, tmpl: t, apiBase: apiBase, log: log}, nil
}

// Mount registers the pages on r.
func (p *Pages) Mount(r *mux.Router) {
	r.HandleFunc("/", p.Dashboard).Methods(http.MethodGet)
	r.HandleFunc("/admin", p.Admin).Methods(http.MethodGet)
	r.HandleFunc("/login", p.Login).Methods(http.MethodGet)
}

type Page struct {
	Title   string
	APIBase string
}

type DashboardData struct {
	Page
	From    string
	To      string
	Error   string
	Entries []model.Cob
	Summary stats.Summary
	Chart   Chart
}

func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := DashboardData{
		Page: Page{Title: "COB Dashboard", APIBase: p.apiBase},
		From: q.Get("from"),
		To:   q.Get("to"),
	}

	rng, err := stats.ParseRange(data.From, data.To)
	if err != nil {
		data.Error = "Dates must be picked as YYYY-MM-DD."
		p.render(w, http.StatusBadRequest, "dashboard.html", data)
		return
	}

	cobs, err := p.store.ListCobs(r.Context())
	if err != nil {
		p.log.Error("dashboard list", "err", err)
		data.Error = "Could not load entries. Try again shortly."
		p.render(w, http.StatusInternalServerError, "dashboard.html", data)
		return
	}

	data.Entries, data.Summary = stats.Dashboard(cobs, rng)
	data.Chart = buildChart(data.Summary.Points)
	p.render(w, http.StatusOK, "dashboard.html", data)
}

func (p *Pages) Admin(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusOK, "admin.html", Page{Title: "COB Admin", APIBase: p.apiBase})
}

func (p *Pages) Login(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusOK, "login.html", Page{Title: "Admin Login", APIBase: p.apiBase})
}

// render buffers the page so a template failure never sends half a document.
func (p *Pages) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		p.log.Error("render", "page", name, "err", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
