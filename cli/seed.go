// ABOUTME: Seed CLI command
// ABOUTME: Generates a deterministic demo dataset and loads it into the database
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/harperreed/sherpa/loader"
	"github.com/harperreed/sherpa/network"
	"github.com/harperreed/sherpa/provider"
	"github.com/harperreed/sherpa/seed"
)

// NetworkSnapshotFile is the name of the provider snapshot written by --out.
const NetworkSnapshotFile = "network.json"

// SeedCommand fills the database with synthetic accounts, connections and
// a network whose second-degree links reach account contacts.
func SeedCommand(ctx context.Context, app *App, args []string) error {
	defaults := seed.DefaultOptions()
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	seedValue := fs.Int64("seed", 1, "Random seed; the same seed gives the same data")
	accounts := fs.Int("accounts", defaults.Accounts, "Number of accounts")
	connections := fs.Int("connections", defaults.Connections, "Number of first-degree connections")
	secondDegree := fs.Int("second-degree", defaults.SecondDegree, "Account contacts known by each connection")
	out := fs.String("out", "", "Also write accounts.json, connections.json and network.json here")
	_ = fs.Parse(args)

	gen := seed.New(rand.New(rand.NewSource(*seedValue)), app.Now())
	ds := gen.Generate(seed.Options{
		Accounts:     *accounts,
		Connections:  *connections,
		SecondDegree: *secondDegree,
		OwnerID:      app.Config.OwnerID,
	})

	if _, err := app.Store.SaveAccounts(ctx, ds.Accounts); err != nil {
		return err
	}
	if _, err := app.Store.SaveConnections(ctx, ds.Connections); err != nil {
		return err
	}

	engine := app.newEngine(network.WithConnectionSource(provider.NewMemoryProvider("seed", 1, ds.Network)))
	opts := network.DefaultImportOptions()
	opts.IncludeSecondDegree = true
	imported := engine.ImportFromSource(ctx, app.Config.OwnerID, opts)
	if err := app.saveEngine(ctx, engine); err != nil {
		return err
	}

	scores := app.scoreAll(ctx, ds.Accounts)
	if err := app.Store.SaveUrgencyScores(ctx, scores.Scores); err != nil {
		return err
	}

	if *out != "" {
		if err := writeSeedFiles(*out, ds); err != nil {
			return err
		}
	}

	app.printf("✓ Seeded %d accounts and %d connections (seed %d)\n", len(ds.Accounts), len(ds.Connections), *seedValue)
	app.printf("  Network: %d nodes, %d edges (%d second-degree)\n", imported.NodesImported, imported.EdgesImported, imported.SecondDegreeNodes)
	app.printf("  Scored:  %d accounts\n", len(scores.Scores))
	if *out != "" {
		app.printf("  Files:   %s\n", *out)
	}
	return nil
}

func writeSeedFiles(dir string, ds seed.Dataset) error {
	if err := loader.WriteDataset(dir, ds.Accounts, ds.Connections); err != nil {
		return err
	}
	data, err := json.MarshalIndent(ds.Network, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode network snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, NetworkSnapshotFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write network snapshot: %w", err)
	}
	return nil
}
