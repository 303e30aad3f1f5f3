// ABOUTME: Account CLI commands
// ABOUTME: Import account data, recalculate urgency scores and inspect rankings and breakdowns
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/sherpa/loader"
	"github.com/harperreed/sherpa/urgency"
)

// AccountsImportCommand copies accounts and connections from a JSON data
// directory into the database.
func AccountsImportCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("accounts import", flag.ExitOnError)
	dir := fs.String("dir", app.Config.DataDir, "Directory holding accounts.json and connections.json")
	_ = fs.Parse(args)

	var source loader.DataLoader = loader.NewJSONLoader(*dir)
	accounts, err := source.LoadAccounts(ctx)
	if err != nil {
		return err
	}
	conns, err := source.LoadConnections(ctx)
	if err != nil {
		return err
	}

	skippedAccounts, err := app.Store.SaveAccounts(ctx, accounts)
	if err != nil {
		return err
	}
	skippedConns, err := app.Store.SaveConnections(ctx, conns)
	if err != nil {
		return err
	}

	app.printf("✓ Imported %d accounts and %d connections from %s\n",
		len(accounts)-len(skippedAccounts), len(conns)-len(skippedConns), *dir)
	for _, r := range skippedAccounts {
		app.printf("  ! skipped account %d: %v\n", r.Index, r.Err)
	}
	for _, r := range skippedConns {
		app.printf("  ! skipped connection %d: %v\n", r.Index, r.Err)
	}
	return nil
}

// AccountsScoreCommand recalculates every account's urgency score and
// stores the breakdowns.
func AccountsScoreCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("accounts score", flag.ExitOnError)
	_ = fs.Parse(args)

	accounts, err := app.Store.LoadAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		app.printf("No accounts found\n")
		return nil
	}

	res := app.scoreAll(ctx, accounts)
	if err := app.Store.SaveUrgencyScores(ctx, res.Scores); err != nil {
		return err
	}

	app.printf("✓ Scored %d accounts\n", len(res.Scores))
	for _, e := range res.Errors {
		app.printf("  ! account %d: %s\n", e.Index, e.Message)
	}
	return nil
}

// AccountsListCommand lists accounts by stored urgency score.
func AccountsListCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("accounts list", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum results")
	minScore := fs.Int("min-score", 0, "Only show accounts scoring at least this much")
	_ = fs.Parse(args)

	accounts, err := app.Store.LoadAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		app.printf("No accounts found\n")
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tPRIORITY\tNAME\tINDUSTRY\tCONTACTS\tID")
	fmt.Fprintln(w, "-----\t--------\t----\t--------\t--------\t--")

	shown := 0
	for _, a := range accounts {
		if a.UrgencyScore < *minScore {
			continue
		}
		if shown == *limit {
			break
		}
		industry := a.Industry
		if industry == "" {
			industry = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			a.UrgencyScore, urgency.PriorityLevel(a.UrgencyScore).Label, a.Name, industry, len(a.Contacts), a.ID)
		shown++
	}
	if err := w.Flush(); err != nil {
		return err
	}
	app.printf("\nShowing %d of %d accounts\n", shown, len(accounts))
	return nil
}

// AccountsPriorityCommand explains one account's urgency score.
func AccountsPriorityCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("accounts priority", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the breakdown as JSON")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("account id is required")
	}

	account, err := app.Store.GetAccount(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	breakdown, err := app.urgencyEngine().Score(account, app.Policy.ICP, app.Now())
	if err != nil {
		return fmt.Errorf("failed to score account: %w", err)
	}
	if *asJSON {
		return app.printJSON(breakdown)
	}

	p := breakdown.Priority()
	app.printf("%s: %d/100 (%s)\n\n", account.Name, breakdown.Overall, p.Label)

	categories := []struct {
		name  string
		score urgency.CategoryScore
	}{
		{"Timing", breakdown.Timing},
		{"Company", breakdown.Company},
		{"Relationship", breakdown.Relationship},
		{"Engagement", breakdown.Engagement},
		{"Fit", breakdown.Fit},
		{"Competitive", breakdown.Competitive},
	}
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSCORE")
	for _, c := range categories {
		fmt.Fprintf(w, "%s\t%d/%d\n", c.name, c.score.Score, c.score.MaxScore)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(breakdown.Factors) > 0 {
		app.printf("\nFactors:\n")
		for _, f := range breakdown.Factors {
			app.printf("  +%d  %s (%s): %s\n", f.Points, f.Name, f.Category, f.Description)
		}
	}
	return nil
}

// AccountsDeleteCommand removes an account and its children.
func AccountsDeleteCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("accounts delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("account id is required")
	}
	if err := app.Store.DeleteAccount(ctx, fs.Arg(0)); err != nil {
		return err
	}
	app.printf("✓ Deleted account %s\n", fs.Arg(0))
	return nil
}
