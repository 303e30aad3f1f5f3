// ABOUTME: Web dashboard CLI command
// ABOUTME: Loads the workspace and serves the read-only dashboard until interrupted
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/sherpa/web"
)

// WebCommand starts the web dashboard.
func WebCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	port := fs.Int("port", web.DefaultPort, "Port to listen on")
	_ = fs.Parse(args)

	ws, err := app.workspace(ctx)
	if err != nil {
		return err
	}
	server, err := web.NewServer(ws)
	if err != nil {
		return err
	}

	app.printf("Serving dashboard at http://localhost:%d\n", *port)
	return server.Start(ctx, fmt.Sprintf(":%d", *port))
}
