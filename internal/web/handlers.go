package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/retailetl/internal/analytics"
	"github.com/JonMunkholm/retailetl/internal/core"
	"github.com/JonMunkholm/retailetl/internal/logging"
	"github.com/JonMunkholm/retailetl/internal/web/templates"
)

// ViewInfo describes a view in the /api/views listing.
type ViewInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// ViewResponse wraps a computed view.
type ViewResponse struct {
	View string `json:"view"`
	Data any    `json:"data"`
}

// TableInfo describes a loaded table in the /api/tables listing.
type TableInfo struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	FileName string   `json:"file_name"`
	Columns  []string `json:"columns"`
}

func viewInfos() []ViewInfo {
	views := analytics.Views()
	out := make([]ViewInfo, 0, len(views))
	for _, v := range views {
		out = append(out, ViewInfo{Name: v.Name, Description: v.Description, URL: "/api/views/" + v.Name})
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(viewInfosForTemplate()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

func viewInfosForTemplate() []templates.ViewLink {
	infos := viewInfos()
	out := make([]templates.ViewLink, len(infos))
	for i, v := range infos {
		out[i] = templates.ViewLink{Name: v.Name, Description: v.Description, URL: v.URL}
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "ok")
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	defs := core.All()
	out := make([]TableInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, TableInfo{
			Name:     string(d.Info.Key),
			Label:    d.Info.Label,
			FileName: d.Info.FileName,
			Columns:  d.Info.Columns,
		})
	}
	render.JSON(w, r, out)
}

func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, viewInfos())
}

// handleView computes one view over a fresh snapshot. Thresholds may be
// overridden per request with top_n, quintiles, repeat_threshold and
// churn_months.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	view, ok := analytics.Lookup(name)
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown view: %s", name), http.StatusNotFound)
		return
	}

	cfg := s.analytics
	cfg.TopN = parseIntParam(r, "top_n", cfg.TopN)
	cfg.Quintiles = parseIntParam(r, "quintiles", cfg.Quintiles)
	cfg.RepeatThreshold = parseIntParam(r, "repeat_threshold", cfg.RepeatThreshold)
	cfg.ChurnMonths = parseIntParam(r, "churn_months", cfg.ChurnMonths)

	ds, err := s.limiter.snapshot(r.Context(), s.source)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("load snapshot: %w", err), statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Debug("view computed", "view", name,
		"customers", len(ds.Customers), "orders", len(ds.Orders))
	render.JSON(w, r, ViewResponse{View: name, Data: view.Run(ds, cfg)})
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
