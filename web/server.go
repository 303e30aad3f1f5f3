// ABOUTME: Read-only web dashboard and JSON API over a sherpa workspace
// ABOUTME: Serves ranked accounts, account detail pages, the network graph and tool outputs
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/harperreed/sherpa/handlers"
	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/urgency"
	"github.com/harperreed/sherpa/viz"
	"github.com/harperreed/sherpa/warmintro"
)

//go:embed templates/*
var templatesFS embed.FS

const (
	DefaultPort     = 8080
	dashboardLimit  = 10
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	ws        *handlers.Workspace
	accounts  *handlers.AccountHandlers
	network   *handlers.NetworkHandlers
	intros    *handlers.IntroHandlers
	templates *template.Template
}

func NewServer(ws *handlers.Workspace) (*Server, error) {
	funcMap := template.FuncMap{
		"percent": func(f float64) string {
			return fmt.Sprintf("%.0f%%", f*100)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		ws:        ws,
		accounts:  handlers.NewAccountHandlers(ws),
		network:   handlers.NewNetworkHandlers(ws),
		intros:    handlers.NewIntroHandlers(ws),
		templates: tmpl,
	}, nil
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /accounts/{id}", s.handleAccount)
	mux.HandleFunc("GET /network.dot", s.handleNetworkDOT)

	mux.HandleFunc("GET /api/accounts", s.handleAPIAccounts)
	mux.HandleFunc("GET /api/accounts/{id}", s.handleAPIAccount)
	mux.HandleFunc("GET /api/accounts/{id}/recommendations", s.handleAPIRecommendations)
	mux.HandleFunc("GET /api/paths/{target}", s.handleAPIPath)
	mux.HandleFunc("GET /api/network", s.handleAPINetwork)
	mux.HandleFunc("GET /api/stats", s.handleAPIStats)
	mux.HandleFunc("GET /api/intros", s.handleAPIIntros)
	return mux
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web: listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) now() time.Time {
	if s.ws.Now == nil {
		return time.Now()
	}
	return s.ws.Now()
}

func (s *Server) account(id string) (*models.Account, bool) {
	for i := range s.ws.Accounts {
		if s.ws.Accounts[i].ID == id {
			return &s.ws.Accounts[i], true
		}
	}
	return nil, false
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	engine := s.ws.Urgency
	if engine == nil {
		engine = urgency.New()
	}
	now := s.now()
	res := engine.BatchRecalculate(r.Context(), s.ws.Accounts, s.ws.ICP, now, urgency.BatchOptions{})
	for _, e := range res.Errors {
		logger.Warn("web: account could not be scored", "account", e.AccountID, "error", e.Message)
	}

	var intros *warmintro.Stats
	var top []warmintro.WarmIntroPath
	if s.ws.Matcher != nil {
		stats := s.ws.Matcher.Stats()
		intros = &stats
		top = s.ws.Matcher.TopWarmIntros(dashboardLimit)
	}

	data := map[string]any{
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
		"Stats":           viz.GenerateDashboardStats(s.ws.Accounts, res.Scores, intros, now, dashboardLimit),
		"Intros":          top,
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	account, ok := s.account(id)
	if !ok {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}

	_, score, err := s.accounts.ScoreAccount(r.Context(), nil, handlers.ScoreAccountInput{AccountID: id})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, recs, err := s.accounts.RecommendActions(r.Context(), nil, handlers.RecommendActionsInput{AccountID: id})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var intros []warmintro.WarmIntroPath
	if s.ws.Matcher != nil {
		intros = s.ws.Matcher.ForAccount(id)
	}

	data := map[string]any{
		"Title":           account.Name,
		"ContentTemplate": "account-content",
		"Account":         account,
		"Score":           score,
		"Recommendations": recs.Recommendations,
		"Intros":          intros,
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleNetworkDOT(w http.ResponseWriter, r *http.Request) {
	if s.ws.Engine == nil {
		http.Error(w, "No network loaded", http.StatusServiceUnavailable)
		return
	}
	dot, err := viz.GenerateNetworkGraph(s.ws.Engine.ExportForVisualization())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) handleAPIAccounts(w http.ResponseWriter, r *http.Request) {
	input := handlers.RankAccountsInput{
		Limit:    queryInt(r, "limit"),
		MinScore: queryInt(r, "min_score"),
	}
	_, out, err := s.accounts.RankAccounts(r.Context(), nil, input)
	s.writeResult(w, out, err)
}

func (s *Server) handleAPIAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.account(id); !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Errorf("account not found: %s", id))
		return
	}
	_, out, err := s.accounts.ScoreAccount(r.Context(), nil, handlers.ScoreAccountInput{AccountID: id})
	s.writeResult(w, out, err)
}

func (s *Server) handleAPIRecommendations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.account(id); !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Errorf("account not found: %s", id))
		return
	}
	input := handlers.RecommendActionsInput{AccountID: id, Limit: queryInt(r, "limit")}
	_, out, err := s.accounts.RecommendActions(r.Context(), nil, input)
	s.writeResult(w, out, err)
}

func (s *Server) handleAPIPath(w http.ResponseWriter, r *http.Request) {
	input := handlers.FindIntroPathInput{
		TargetID: r.PathValue("target"),
		MaxDepth: queryInt(r, "depth"),
		MaxPaths: queryInt(r, "paths"),
	}
	_, out, err := s.network.FindIntroPath(r.Context(), nil, input)
	if err == nil && !out.Found {
		writeJSON(w, http.StatusNotFound, out)
		return
	}
	s.writeResult(w, out, err)
}

func (s *Server) handleAPINetwork(w http.ResponseWriter, r *http.Request) {
	if s.ws.Engine == nil {
		writeJSONError(w, http.StatusServiceUnavailable, errors.New("no network loaded"))
		return
	}
	writeJSON(w, http.StatusOK, s.ws.Engine.ExportForVisualization())
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	_, out, err := s.network.NetworkStats(r.Context(), nil, handlers.NetworkStatsInput{})
	s.writeResult(w, out, err)
}

func (s *Server) handleAPIIntros(w http.ResponseWriter, r *http.Request) {
	input := handlers.FindWarmIntrosInput{
		AccountID: r.URL.Query().Get("account"),
		Limit:     queryInt(r, "limit"),
	}
	if input.AccountID != "" {
		if _, ok := s.account(input.AccountID); !ok {
			writeJSONError(w, http.StatusNotFound, fmt.Errorf("account not found: %s", input.AccountID))
			return
		}
	}
	_, out, err := s.intros.FindWarmIntros(r.Context(), nil, input)
	s.writeResult(w, out, err)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data any) {
	// The data map carries ContentTemplate to pick the content block inside layout.html.
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("web: template error", "template", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeResult maps tool errors to 503 since they only fail when the
// workspace is missing an engine.
func (s *Server) writeResult(w http.ResponseWriter, v any, err error) {
	if err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("web: failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
