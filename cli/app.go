// ABOUTME: Shared runtime for CLI commands
// ABOUTME: Wires config, policy, storage, providers and text generation into the core engines
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harperreed/sherpa/config"
	"github.com/harperreed/sherpa/db"
	"github.com/harperreed/sherpa/handlers"
	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
	"github.com/harperreed/sherpa/provider"
	"github.com/harperreed/sherpa/recommend"
	"github.com/harperreed/sherpa/textgen"
	"github.com/harperreed/sherpa/urgency"
	"github.com/harperreed/sherpa/warmintro"
)

// App carries what every command needs. Out and In default to the
// process streams; Now defaults to time.Now.
type App struct {
	Config *config.Config
	Policy *config.Policy
	Store  *db.Store
	Out    io.Writer
	In     io.Reader
	Now    func() time.Time
}

func NewApp(cfg *config.Config, store *db.Store) (*App, error) {
	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, err
	}
	return &App{
		Config: cfg,
		Policy: policy,
		Store:  store,
		Out:    os.Stdout,
		In:     os.Stdin,
		Now:    time.Now,
	}, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// generator prefers OpenAI when a key is configured and falls back to the
// fixed template otherwise.
func (a *App) generator() textgen.Generator {
	g := textgen.NewOpenAIGenerator(textgen.OpenAIParams{
		APIKey:  a.Config.OpenAIAPIKey,
		BaseURL: a.Config.OpenAIBaseURL,
		Model:   a.Config.OpenAIModel,
	})
	if g == nil {
		return textgen.TemplateGenerator{}
	}
	return textgen.WithFallback(g)
}

func (a *App) newEngine(extra ...network.Option) *network.Engine {
	opts := []network.Option{
		network.WithScorer(a.Policy.Scorer()),
		network.WithGenerator(a.generator()),
		network.WithClock(a.Now),
	}
	return network.New(a.Config.OwnerID, append(opts, extra...)...)
}

// loadEngine rebuilds the owner's saved network snapshot.
func (a *App) loadEngine(ctx context.Context, extra ...network.Option) (*network.Engine, error) {
	nodes, edges, err := a.Store.LoadNetwork(ctx, a.Config.OwnerID)
	if err != nil {
		return nil, err
	}
	engine := a.newEngine(extra...)
	report := engine.Load(nodes, edges)
	for _, skipped := range report.SkippedEdges {
		logger.Warn("cli: skipped stored edge", "source", skipped.Edge.SourceID, "target", skipped.Edge.TargetID, "reason", skipped.Reason)
	}
	logger.Debug("cli: network loaded", "nodes", report.NodesAdded, "edges", report.EdgesAdded)
	return engine, nil
}

func (a *App) saveEngine(ctx context.Context, engine *network.Engine) error {
	return a.Store.SaveNetwork(ctx, a.Config.OwnerID, engine.Store().Nodes(), engine.Store().Edges())
}

func (a *App) urgencyEngine() *urgency.Engine {
	return a.Policy.UrgencyEngine()
}

func (a *App) scoreAll(ctx context.Context, accounts []models.Account) urgency.BatchResult {
	return a.urgencyEngine().BatchRecalculate(ctx, accounts, a.Policy.ICP, a.Now(), urgency.BatchOptions{})
}

func (a *App) matcher(ctx context.Context) (*warmintro.Matcher, []models.Account, error) {
	accounts, err := a.Store.LoadAccounts(ctx)
	if err != nil {
		return nil, nil, err
	}
	conns, err := a.Store.LoadConnections(ctx)
	if err != nil {
		return nil, nil, err
	}
	m := a.Policy.Matcher(warmintro.WithClock(a.Now))
	m.Load(accounts, conns)
	return m, accounts, nil
}

func (a *App) recommender() *recommend.Recommender {
	return recommend.New(recommend.WithGenerator(a.generator()))
}

// workspace loads everything the MCP tools and the TUI read.
func (a *App) workspace(ctx context.Context) (*handlers.Workspace, error) {
	engine, err := a.loadEngine(ctx)
	if err != nil {
		return nil, err
	}
	m, accounts, err := a.matcher(ctx)
	if err != nil {
		return nil, err
	}
	return &handlers.Workspace{
		Engine:      engine,
		Urgency:     a.urgencyEngine(),
		Matcher:     m,
		Recommender: a.recommender(),
		ICP:         a.Policy.ICP,
		Accounts:    accounts,
		Now:         a.Now,
	}, nil
}

// openCache returns the badger-backed provider cache, or an in-memory one
// when the cache directory cannot be opened.
func (a *App) openCache() (provider.Cache, func()) {
	cache, err := provider.OpenBadgerCache(a.Config.CacheDir)
	if err != nil {
		logger.Warn("cli: provider cache unavailable, using memory", "dir", a.Config.CacheDir, "error", err)
		return provider.NewMemoryCache(), func() {}
	}
	return cache, func() {
		if err := cache.Close(); err != nil {
			logger.Warn("cli: failed to close provider cache", "error", err)
		}
	}
}

func (a *App) rateLimit() provider.RateLimit {
	return provider.RateLimit{RequestsPerHour: a.Config.RateLimitPerHour, Burst: a.Config.RateLimitPerHour}
}
