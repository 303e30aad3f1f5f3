// ABOUTME: Relationship network CLI commands
// ABOUTME: Import connections from providers, find intro paths, list connectors and export the graph
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/sherpa/graph"
	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
	"github.com/harperreed/sherpa/platform"
	"github.com/harperreed/sherpa/provider"
	"github.com/harperreed/sherpa/viz"
	"golang.org/x/oauth2"
)

// NetworkImportCommand pulls the owner's connections from the configured
// providers and merges them into the saved network.
func NetworkImportCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("network import", flag.ExitOnError)
	from := fs.String("from", "", "JSON snapshot file of profiles and connections")
	useGoogle := fs.Bool("google", false, "Import Google contacts (run 'network auth' first)")
	identity := fs.String("owner", "", "Owner identity to import (default: configured owner id)")
	secondDegree := fs.Bool("second-degree", false, "Also import connections of connections")
	maxConns := fs.Int("max", network.DefaultMaxConnections, "Maximum first-degree connections")
	minStrength := fs.Float64("min-strength", network.DefaultMinStrength, "Minimum edge strength to keep")
	enrich := fs.Bool("enrich", false, "Fetch each connection's profile and boost strength by completeness")
	_ = fs.Parse(args)

	if *from == "" && !*useGoogle {
		return fmt.Errorf("--from or --google is required")
	}

	cache, closeCache := app.openCache()
	defer closeCache()
	registry := provider.NewRegistry(provider.WithCache(cache), provider.WithTTL(app.Config.CacheTTL))

	if *from != "" {
		fileProvider, err := provider.LoadFileProvider(*from)
		if err != nil {
			return err
		}
		registry.Register(fileProvider.WithRateLimit(app.rateLimit()))
	}
	if *useGoogle {
		token, err := provider.LoadToken(provider.TokenPath())
		if err != nil {
			return fmt.Errorf("no Google token, run 'sherpa network auth': %w", err)
		}
		google, err := provider.NewGoogleContactsProvider(ctx, provider.NewOAuthConfig(), token, app.Config.OwnerID)
		if err != nil {
			return err
		}
		registry.Register(google)
	}

	owner := *identity
	if owner == "" {
		owner = app.Config.OwnerID
	}

	engine, err := app.loadEngine(ctx, network.WithConnectionSource(registry))
	if err != nil {
		return err
	}

	opts := network.DefaultImportOptions()
	opts.IncludeSecondDegree = *secondDegree
	opts.MaxConnections = *maxConns
	opts.MinStrength = *minStrength

	var result network.ImportResult
	if *enrich {
		result, err = importEnriched(ctx, app, engine, registry, owner, opts)
		if err != nil {
			return err
		}
	} else {
		result = engine.ImportFromSource(ctx, owner, opts)
	}

	if err := app.saveEngine(ctx, engine); err != nil {
		return err
	}

	app.printf("✓ Imported %d nodes and %d edges via %s\n", result.NodesImported, result.EdgesImported, strings.Join(registry.Providers(), ", "))
	if result.SecondDegreeNodes > 0 {
		app.printf("  Second-degree nodes: %d\n", result.SecondDegreeNodes)
	}
	for _, e := range result.Errors {
		app.printf("  ! %s\n", e)
	}
	return nil
}

func importEnriched(ctx context.Context, app *App, engine *network.Engine, registry *provider.Registry, identity string, opts network.ImportOptions) (network.ImportResult, error) {
	owner, err := registry.GetProfile(ctx, identity)
	if err != nil {
		return network.ImportResult{}, fmt.Errorf("failed to fetch owner profile: %w", err)
	}
	conns, err := registry.GetConnections(ctx, owner.ID)
	if err != nil {
		return network.ImportResult{}, fmt.Errorf("failed to fetch connections: %w", err)
	}

	res := platform.New(engine, registry).WithClock(app.Now).ImportEnriched(ctx, *owner, conns, opts)
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOMPLETENESS\tSTRENGTH\tCHANNEL")
	fmt.Fprintln(w, "----\t------------\t--------\t-------")
	for _, in := range res.Insights {
		fmt.Fprintf(w, "%s\t%d%%\t%.2f\t%s\n", in.Name, in.ProfileCompleteness, in.EnrichedStrength, in.PreferredContact)
	}
	if err := w.Flush(); err != nil {
		return network.ImportResult{}, err
	}
	return res.Import, nil
}

// NetworkAuthCommand runs the Google OAuth flow and stores the token.
func NetworkAuthCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("network auth", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg := provider.NewOAuthConfig()
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return fmt.Errorf("set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET first")
	}

	app.printf("Open this URL and authorize access to your contacts:\n\n%s\n\n", cfg.AuthCodeURL("sherpa", oauth2.AccessTypeOffline))
	app.printf("Paste the authorization code: ")

	code, err := bufio.NewReader(app.In).ReadString('\n')
	if err != nil && code == "" {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	token, err := cfg.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	path := provider.TokenPath()
	if err := provider.SaveToken(path, token); err != nil {
		return err
	}
	app.printf("✓ Token saved to %s\n", path)
	return nil
}

// NetworkPathCommand prints the best introduction path to a node.
func NetworkPathCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("network path", flag.ExitOnError)
	depth := fs.Int("depth", graph.DefaultMaxDepth, "Maximum degrees of separation")
	paths := fs.Int("paths", graph.DefaultMaxPaths, "Maximum paths including alternatives")
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	asDOT := fs.Bool("dot", false, "Print the path as Graphviz DOT")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("target id is required")
	}
	targetID := fs.Arg(0)

	engine, err := app.loadEngine(ctx)
	if err != nil {
		return err
	}

	result := engine.FindPaths(targetID, *depth, *paths)
	if result == nil {
		app.printf("No path to %s within %d degrees\n", targetID, *depth)
		return nil
	}

	switch {
	case *asJSON:
		return app.printJSON(result)
	case *asDOT:
		dot, err := viz.GeneratePathGraph(result)
		if err != nil {
			return err
		}
		app.printf("%s", dot)
		return nil
	}

	app.printf("Path to %s (%d°, confidence %.0f%%, intro success %.0f%%)\n\n",
		result.TargetName, result.Degree, result.Confidence*100, result.IntroSuccessRate*100)
	printHops(app, result.Path)
	if result.SuggestedIntroMessage != "" {
		app.printf("\nSuggested message:\n  %s\n", result.SuggestedIntroMessage)
	}
	for i, alt := range result.AlternativePaths {
		app.printf("\nAlternative %d:\n", i+1)
		printHops(app, alt)
	}
	return nil
}

// NetworkOpportunitiesCommand plans a warm introduction to one person:
// the best path, an urgency score and drafted outreach.
func NetworkOpportunitiesCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("network opportunities", flag.ExitOnError)
	paths := fs.Int("paths", graph.DefaultMaxPaths, "Maximum paths including alternatives")
	weak := fs.Bool("weak", false, "Include paths below the weak-connection threshold")
	needContext := fs.Bool("context", false, "Flag paths with no shared relationship context")
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("target is required")
	}
	target := fs.Arg(0)

	engine, err := app.loadEngine(ctx)
	if err != nil {
		return err
	}

	ops := engine.FindIntroductionOpportunities(ctx, target, network.OpportunityOptions{
		MaxPaths:               *paths,
		IncludeWeakConnections: *weak,
		ContextRequired:        *needContext,
	})
	if *asJSON {
		return app.printJSON(ops)
	}
	if len(ops) == 0 {
		app.printf("No introduction opportunity for %s\n", target)
		return nil
	}

	for _, op := range ops {
		app.printf("Introduction to %s (%d°, urgency %d/100, context %d/100)\n\n",
			op.Path.TargetName, op.Path.Degree, op.UrgencyScore, op.ContextScore)
		printHops(app, op.Path.Path)

		app.printf("\nSuggested approach:\n")
		if op.SuggestedApproach.Subject != "" {
			app.printf("  Subject: %s\n", op.SuggestedApproach.Subject)
		}
		app.printf("  %s\n", op.SuggestedApproach.PrimaryMessage)
		for _, point := range op.SuggestedApproach.TalkingPoints {
			app.printf("  • %s\n", point)
		}

		app.printf("\nExpected: %.0f%% response, %.0f%% meeting, ~%d days\n",
			op.ExpectedOutcome.ResponseRate*100, op.ExpectedOutcome.MeetingRate*100, op.ExpectedOutcome.DaysToResponse)
		app.printf("Best time: %s\n", op.BestContactTime)
		for _, r := range op.RiskFactors {
			app.printf("  ! %s\n", r)
		}
		for _, w := range op.Warnings {
			app.printf("  ! %s\n", w)
		}
	}
	return nil
}

func printHops(app *App, hops []models.PathHop) {
	for i, hop := range hops {
		if i == 0 {
			app.printf("  %s\n", hop.Name)
			continue
		}
		line := fmt.Sprintf("  %s→ %s", strings.Repeat("  ", i-1), hop.Name)
		if hop.Company != "" {
			line += " @ " + hop.Company
		}
		line += fmt.Sprintf(" [%s %.2f]", hop.Kind, hop.Strength)
		app.printf("%s\n", line)
	}
}

// NetworkConnectorsCommand lists who can introduce you to a target.
func NetworkConnectorsCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("network connectors", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("target id is required")
	}

	engine, err := app.loadEngine(ctx)
	if err != nil {
		return err
	}

	connectors := engine.SuggestBestConnectors(fs.Arg(0))
	if len(connectors) == 0 {
		app.printf("No connectors found for %s\n", fs.Arg(0))
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONNECTOR\tDEGREE\tSTRENGTH\tREASON")
	fmt.Fprintln(w, "---------\t------\t--------\t------")
	for _, c := range connectors {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%s\n", c.ConnectorName, c.PathLength, c.Strength, c.Reason)
	}
	return w.Flush()
}

// NetworkStatsCommand summarises the saved network.
func NetworkStatsCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("network stats", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the stats as JSON")
	_ = fs.Parse(args)

	engine, err := app.loadEngine(ctx)
	if err != nil {
		return err
	}
	stats := engine.GetNetworkStats()
	if *asJSON {
		return app.printJSON(stats)
	}

	app.printf("Nodes:              %d\n", stats.TotalNodes)
	app.printf("Edges:              %d\n", stats.TotalEdges)
	app.printf("Direct connections: %d\n", stats.DirectConnections)
	app.printf("Second degree:      %d\n", stats.SecondDegree)
	app.printf("Third degree:       %d\n", stats.ThirdDegree)
	app.printf("Companies:          %d\n", stats.MaxReachableCompanies)
	app.printf("Average strength:   %.2f\n", stats.AverageStrength)
	return nil
}

// NetworkExportCommand writes the network as JSON or DOT.
func NetworkExportCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("network export", flag.ExitOnError)
	format := fs.String("format", "json", "Output format: json or dot")
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	engine, err := app.loadEngine(ctx)
	if err != nil {
		return err
	}
	vg := engine.ExportForVisualization()

	var content string
	switch *format {
	case "json":
		if *output == "" {
			return app.printJSON(vg)
		}
		data, err := json.MarshalIndent(vg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode graph: %w", err)
		}
		content = string(data) + "\n"
	case "dot":
		content, err = viz.GenerateNetworkGraph(vg)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", *format)
	}

	return writeOutput(app, *output, content)
}

// NetworkReachableCommand lists everyone reachable by degree.
func NetworkReachableCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("network reachable", flag.ExitOnError)
	degrees := fs.Int("degrees", network.DefaultReachableDegrees, "Maximum degrees of separation")
	_ = fs.Parse(args)

	engine, err := app.loadEngine(ctx)
	if err != nil {
		return err
	}

	levels := engine.FindAllReachable(*degrees)
	keys := make([]int, 0, len(levels))
	for d := range levels {
		keys = append(keys, d)
	}
	sort.Ints(keys)

	for _, d := range keys {
		if d == 0 {
			continue
		}
		nodes := levels[d]
		app.printf("%d° (%d)\n", d, len(nodes))
		for _, n := range nodes {
			line := "  " + n.DisplayName
			if n.Company != "" {
				line += " @ " + n.Company
			}
			app.printf("%s  [%s]\n", line, n.ID)
		}
	}
	return nil
}

func writeOutput(app *App, path, content string) error {
	if path == "" {
		app.printf("%s", content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Info("cli: wrote output", "path", path, "bytes", len(content))
	app.printf("✓ Wrote %s\n", path)
	return nil
}
