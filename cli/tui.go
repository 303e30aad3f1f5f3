// ABOUTME: TUI subcommand
// ABOUTME: Launches the account browser, or prints the dashboard when stdout is not a terminal
package cli

import (
	"context"
	"os"

	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/tui"
	"golang.org/x/term"
)

// TUICommand starts the interactive account browser.
func TUICommand(ctx context.Context, app *App, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Debug("cli: stdout is not a terminal, printing dashboard")
		out, err := dashboard(ctx, app, 0)
		if err != nil {
			return err
		}
		app.printf("%s", out)
		return nil
	}

	ws, err := app.workspace(ctx)
	if err != nil {
		return err
	}
	return tui.Run(tui.Data{
		Accounts:    ws.Accounts,
		Intros:      ws.Matcher.TopWarmIntros(50),
		Urgency:     ws.Urgency,
		ICP:         ws.ICP,
		Engine:      ws.Engine,
		Recommender: ws.Recommender,
		Now:         app.Now(),
	})
}
