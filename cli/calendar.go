// ABOUTME: Calendar sync CLI command
// ABOUTME: Records Google Calendar meetings on matching accounts and rescores them
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/sherpa/interactions"
	"github.com/harperreed/sherpa/provider"
)

// AccountsCalendarCommand imports recent meetings from Google Calendar.
func AccountsCalendarCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("accounts calendar", flag.ExitOnError)
	days := fs.Int("days", interactions.DefaultLookbackDays, "How many days back to import")
	_ = fs.Parse(args)

	token, err := provider.LoadToken(provider.TokenPath())
	if err != nil {
		return fmt.Errorf("no Google token, run 'sherpa network auth': %w", err)
	}
	source, err := interactions.NewGoogleCalendarSource(ctx, provider.NewOAuthConfig(), token)
	if err != nil {
		return err
	}
	return syncCalendar(ctx, app, source, *days)
}

func syncCalendar(ctx context.Context, app *App, source interactions.EventSource, days int) error {
	accounts, err := app.Store.LoadAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		app.printf("No accounts found\n")
		return nil
	}

	app.printf("Syncing Google Calendar...\n")
	res, err := interactions.NewImporter(source).WithClock(app.Now).Import(ctx, accounts, days)
	if err != nil {
		return err
	}

	if _, err := app.Store.SaveAccounts(ctx, accounts); err != nil {
		return err
	}
	scores := app.scoreAll(ctx, accounts)
	if err := app.Store.SaveUrgencyScores(ctx, scores.Scores); err != nil {
		return err
	}

	app.printf("✓ Fetched %d events, recorded %d meetings on %d accounts\n", res.Fetched, res.Imported, len(res.Accounts))
	for _, line := range res.Summary() {
		app.printf("  %s\n", line)
	}
	if res.Duplicates > 0 {
		app.printf("  Already recorded: %d\n", res.Duplicates)
	}
	if res.Unmatched > 0 {
		app.printf("  No matching contact: %d\n", res.Unmatched)
	}
	return nil
}
