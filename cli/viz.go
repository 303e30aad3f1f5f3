// ABOUTME: Visualization CLI commands
// ABOUTME: Renders the network as Graphviz DOT and accounts as an ASCII dashboard
package cli

import (
	"context"
	"flag"

	"github.com/harperreed/sherpa/viz"
)

// VizNetworkCommand renders the saved network as DOT.
func VizNetworkCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("viz network", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	engine, err := app.loadEngine(ctx)
	if err != nil {
		return err
	}
	dot, err := viz.GenerateNetworkGraph(engine.ExportForVisualization())
	if err != nil {
		return err
	}
	return writeOutput(app, *output, dot)
}

// VizDashboardCommand prints the account dashboard.
func VizDashboardCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("viz dashboard", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Number of top accounts to show")
	_ = fs.Parse(args)

	out, err := dashboard(ctx, app, *limit)
	if err != nil {
		return err
	}
	app.printf("%s", out)
	return nil
}

func dashboard(ctx context.Context, app *App, limit int) (string, error) {
	m, accounts, err := app.matcher(ctx)
	if err != nil {
		return "", err
	}
	scores, err := app.Store.LoadUrgencyScores(ctx)
	if err != nil {
		return "", err
	}
	intros := m.Stats()
	stats := viz.GenerateDashboardStats(accounts, scores, &intros, app.Now(), limit)
	return viz.RenderDashboard(stats), nil
}
