// ABOUTME: Entry point for the sherpa MCP server and CLI
// ABOUTME: Loads config, opens the database and routes to MCP, TUI or CLI commands
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/sherpa/cli"
	"github.com/harperreed/sherpa/config"
	"github.com/harperreed/sherpa/db"
	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/logger/console"
)

const version = "0.1.0"

type command func(ctx context.Context, app *cli.App, args []string) error

var groups = map[string]map[string]command{
	"network": {
		"import":        cli.NetworkImportCommand,
		"auth":          cli.NetworkAuthCommand,
		"path":          cli.NetworkPathCommand,
		"opportunities": cli.NetworkOpportunitiesCommand,
		"connectors":    cli.NetworkConnectorsCommand,
		"stats":         cli.NetworkStatsCommand,
		"export":        cli.NetworkExportCommand,
		"reachable":     cli.NetworkReachableCommand,
	},
	"accounts": {
		"import":   cli.AccountsImportCommand,
		"score":    cli.AccountsScoreCommand,
		"list":     cli.AccountsListCommand,
		"priority": cli.AccountsPriorityCommand,
		"delete":   cli.AccountsDeleteCommand,
		"calendar": cli.AccountsCalendarCommand,
	},
	"intros": {
		"find":  cli.IntrosFindCommand,
		"stats": cli.IntrosStatsCommand,
	},
	"viz": {
		"network":   cli.VizNetworkCommand,
		"dashboard": cli.VizDashboardCommand,
	},
}

var topLevel = map[string]command{
	"recommend": cli.RecommendCommand,
	"seed":      cli.SeedCommand,
	"tui":       cli.TUICommand,
	"web":       cli.WebCommand,
	"mcp": func(ctx context.Context, app *cli.App, _ []string) error {
		return cli.MCPCommand(ctx, app)
	},
}

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/sherpa/sherpa.db)")
	configPath := flag.String("config", "", "Config file path (default: ~/.config/sherpa/config.json)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("sherpa version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	run, rest, ok := resolve(args)
	if !ok {
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	config.LoadEnv()
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *debug {
		cfg.Debug = true
	}

	// The MCP server owns stdout, so logs always go to stderr.
	logger.Init(console.New(console.Params{Debug: cfg.Debug, Output: os.Stderr, Prefix: "sherpa"}))

	store, err := db.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open database", "path", cfg.DatabasePath, "error", err)
	}
	defer store.Close()
	logger.Debug("database opened", "path", cfg.DatabasePath)

	app, err := cli.NewApp(cfg, store)
	if err != nil {
		logger.Fatal("failed to initialise", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, rest); err != nil {
		stop()
		_ = store.Close()
		logger.Fatal("command failed", "command", args[0], "error", err)
	}
}

// resolve finds the command for args, returning the remaining arguments.
func resolve(args []string) (command, []string, bool) {
	if run, ok := topLevel[args[0]]; ok {
		return run, args[1:], true
	}
	group, ok := groups[args[0]]
	if !ok || len(args) < 2 {
		return nil, nil, false
	}
	run, ok := group[args[1]]
	if !ok {
		return nil, nil, false
	}
	return run, args[2:], true
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func printUsage() {
	fmt.Printf(`sherpa v%s - Relationship intelligence for account-based selling

USAGE:
  sherpa [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/sherpa/sherpa.db)
  --config <path>        Config file (default: ~/.config/sherpa/config.json)
  --debug                Enable debug logging

COMMANDS:
  mcp                    Start MCP server for Claude Desktop
  tui                    Interactive account and warm-intro browser
  web                    Read-only web dashboard (--port, default 8080)
  seed                   Generate a demo dataset
  network                Relationship graph commands
  accounts               Account and urgency commands
  intros                 Warm introduction commands
  recommend <id>         Next-best actions for an account
  viz                    Visualization commands

NETWORK COMMANDS:
  sherpa network import        Import connections into the graph
    --from <file>                Network snapshot JSON
    --google                     Import Google contacts (run 'network auth' first)
    --owner <id>                 Owner profile id (default: config owner_id)
    --second-degree              Also import connections of connections
    --max <n>                    Max connections to import (default: 1000)
    --min-strength <f>           Skip weaker connections (default: 0.1)
    --enrich                     Fetch full profiles and print insights

  sherpa network auth          Authorize Google contacts access
  sherpa network path <id>     Find the best introduction path to a person
    --depth <n>                  Max degrees of separation (default: 7)
    --paths <n>                  Paths to return (default: 3)
    --json | --dot               Output format
  sherpa network opportunities <target>  Plan a warm introduction with drafted outreach
    --weak                       Include low-confidence paths
    --context                    Flag paths with no relationship context
    --json                       Output as JSON
  sherpa network connectors <id>  Best connectors to a person
  sherpa network stats         Network summary (--json)
  sherpa network export        Export the graph (--format json|dot, --output <file>)
  sherpa network reachable     Everyone reachable by degree (--degrees <n>)

ACCOUNT COMMANDS:
  sherpa accounts import       Load accounts.json and connections.json (--dir <path>)
  sherpa accounts score        Recalculate and store urgency scores
  sherpa accounts list         Accounts ranked by urgency (--limit, --min-score)
  sherpa accounts priority <id>  Urgency breakdown for one account (--json)
  sherpa accounts delete <id>  Delete an account
  sherpa accounts calendar     Record Google Calendar meetings on accounts (--days <n>)

INTRO COMMANDS:
  sherpa intros find           Top warm intro pathways (--account, --limit, --json)
  sherpa intros stats          Warm intro statistics (--json)

VIZ COMMANDS:
  sherpa viz network           Graphviz DOT of the network (--output <file>)
  sherpa viz dashboard         Text dashboard (--limit <n>)

EXAMPLES:
  # Build a demo workspace
  sherpa seed --accounts 25 --connections 60

  # Who should I call first?
  sherpa accounts list --limit 10

  # How do I reach this person?
  sherpa network path acct-001-contact-1

`, version)
}
