// Command plannerctl runs maintenance tasks against the planner database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"alcyxob/strength-planner/internal/config"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/service"
	"alcyxob/strength-planner/internal/store"

	"github.com/alecthomas/kong"
)

// appContext is handed to every command's Run method.
type appContext struct {
	cfg config.Config
	log *logger.Logger
}

func (a *appContext) open(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, a.cfg.Database, a.log)
}

type MigrateCmd struct{}

// Run opens the store, which applies SQLite migrations or ensures Mongo indexes.
func (c *MigrateCmd) Run(app *appContext) error {
	st, err := app.open(context.Background())
	if err != nil {
		return err
	}
	defer st.Close()
	fmt.Println("Schema is up to date.")
	return nil
}

type SeedCmd struct{}

func (c *SeedCmd) Run(app *appContext) error {
	ctx := context.Background()
	st, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	added, err := service.NewCatalogService(st.Catalog, app.log).Seed(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d catalog rows.\n", added)
	return nil
}

type CatalogListCmd struct {
	Kind string `arg:"" optional:"" enum:"muscle-groups,equipment,intensity,technique,set-types" default:"muscle-groups" help:"Which reference list to print."`
}

func (c *CatalogListCmd) Run(app *appContext) error {
	ctx := context.Background()
	st, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, err := service.NewCatalogService(st.Catalog, app.log).Get(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	switch c.Kind {
	case "equipment":
		for _, e := range cat.Equipment {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID.Hex(), e.Slug, e.Name)
		}
	case "intensity":
		for _, it := range cat.IntensityTypes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", it.ID.Hex(), it.Slug, it.Name)
		}
	case "technique":
		for _, tt := range cat.TechniqueTypes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", tt.ID.Hex(), tt.Slug, tt.Name)
		}
	case "set-types":
		for _, s := range cat.SetTypes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID.Hex(), s.Slug, s.Name)
		}
	default:
		for _, mg := range cat.MuscleGroups {
			fmt.Fprintf(w, "%s\t%s\t%s\n", mg.ID.Hex(), mg.Slug, mg.Name)
		}
	}
	return nil
}

var CLI struct {
	Config string `help:"Directory containing config.yaml." type:"path" default:"."`

	Migrate MigrateCmd `cmd:"" help:"Apply migrations (sqlite) or ensure indexes (mongo)."`
	Seed    SeedCmd    `cmd:"" help:"Insert missing default catalog rows."`
	Catalog struct {
		List CatalogListCmd `cmd:"" help:"Print reference data."`
	} `cmd:"" help:"Inspect the shared catalog."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("plannerctl"),
		kong.Description("Maintenance commands for the strength planner database"),
		kong.UsageOnError(),
	)

	// Maintenance commands never sign tokens.
	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil && !errors.Is(err, config.ErrMissingJWTSecret) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{Mode: cfg.Log.Mode, Level: "warn"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := ctx.Run(&appContext{cfg: cfg, log: log}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
