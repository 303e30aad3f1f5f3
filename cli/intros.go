// ABOUTME: Warm-intro and recommendation CLI commands
// ABOUTME: Match connections to accounts and print next-best actions for one account
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/sherpa/recommend"
	"github.com/harperreed/sherpa/warmintro"
)

// IntrosFindCommand prints the best warm introduction pathways.
func IntrosFindCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("intros find", flag.ExitOnError)
	accountID := fs.String("account", "", "Only show pathways into this account")
	limit := fs.Int("limit", 10, "Maximum results")
	asJSON := fs.Bool("json", false, "Print pathways as JSON")
	_ = fs.Parse(args)

	m, _, err := app.matcher(ctx)
	if err != nil {
		return err
	}

	var paths []warmintro.WarmIntroPath
	if *accountID != "" {
		paths = m.ForAccount(*accountID)
		if len(paths) > *limit {
			paths = paths[:*limit]
		}
	} else {
		paths = m.TopWarmIntros(*limit)
	}

	if *asJSON {
		return app.printJSON(paths)
	}
	if len(paths) == 0 {
		app.printf("No warm introduction pathways found\n")
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRIORITY\tACCOUNT\tCONNECTION\tTYPE\tCONFIDENCE\tSUCCESS\tTIMELINE")
	fmt.Fprintln(w, "--------\t-------\t----------\t----\t----------\t-------\t--------")
	for _, p := range paths {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f%%\t%d%%\t%s\n",
			p.Priority, p.AccountName, p.ConnectionName, p.PathType, p.ConfidenceScore*100, p.ExpectedSuccessRate, p.Timeline)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	app.printf("\nTop pathway: %s\n  %s\n", paths[0].RecommendedAction, paths[0].IntroductionMessage)
	return nil
}

// IntrosStatsCommand summarises warm introduction coverage.
func IntrosStatsCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("intros stats", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print stats as JSON")
	_ = fs.Parse(args)

	m, _, err := app.matcher(ctx)
	if err != nil {
		return err
	}
	stats := m.Stats()
	if *asJSON {
		return app.printJSON(stats)
	}

	app.printf("Connections:          %d\n", stats.TotalConnections)
	app.printf("Accounts:             %d\n", stats.TotalAccounts)
	app.printf("Warm pathways:        %d\n", stats.WarmPathways)
	app.printf("Average confidence:   %.0f%%\n", stats.AverageConfidence*100)
	app.printf("Strong relationships: %d\n", stats.StrongRelationships)
	app.printf("Direct matches:       %d\n", stats.DirectCompanyMatches)
	app.printf("Industry matches:     %d\n", stats.IndustryMatches)
	app.printf("By priority:          urgent %d, high %d, medium %d, low %d\n",
		stats.PriorityBreakdown.Urgent, stats.PriorityBreakdown.High, stats.PriorityBreakdown.Medium, stats.PriorityBreakdown.Low)
	return nil
}

// RecommendCommand prints next-best actions for one account.
func RecommendCommand(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	limit := fs.Int("limit", recommend.DefaultMaxRecommendations, "Maximum recommendations")
	asJSON := fs.Bool("json", false, "Print recommendations as JSON")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("account id is required")
	}

	account, err := app.Store.GetAccount(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	engine, err := app.loadEngine(ctx)
	if err != nil {
		return err
	}

	now := app.Now()
	breakdown, err := app.urgencyEngine().Score(account, app.Policy.ICP, now)
	if err != nil {
		return fmt.Errorf("failed to score account: %w", err)
	}

	rec := recommend.New(recommend.WithGenerator(app.generator()), recommend.WithMaxRecommendations(*limit))
	actions := rec.Generate(ctx, account, breakdown, engine, now)
	if *asJSON {
		return app.printJSON(actions)
	}

	app.printf("%s: urgency %d/100 (%s)\n\n", account.Name, breakdown.Overall, breakdown.Priority().Label)
	if len(actions) == 0 {
		app.printf("No recommendations\n")
		return nil
	}
	for i, a := range actions {
		app.printf("%d. [%s] %s\n", i+1, a.Priority, a.Action)
		app.printf("   %s (success %.0f%%, by %s)\n", a.Reason, a.SuccessProbability*100, a.Deadline.Format("2006-01-02"))
		if a.SuggestedMessage != "" {
			app.printf("   Message: %s\n", a.SuggestedMessage)
		}
	}
	return nil
}
