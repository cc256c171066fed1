package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/ryanm101/gamedb/internal/config"
	"github.com/ryanm101/gamedb/internal/db"
	"github.com/ryanm101/gamedb/internal/logging"
	"github.com/ryanm101/gamedb/internal/tracing"
	"github.com/ryanm101/gamedb/internal/videogame"
)

type demoCmd struct{}

type initCmd struct{}

type addCmd struct {
	Name   string `arg:"positional,required" help:"video game name"`
	Rating string `arg:"positional,required" help:"numeric rating, e.g. 90.5"`
}

type listCmd struct{}

type findCmd struct {
	Name string `arg:"positional,required" help:"exact video game name"`
}

type deleteCmd struct {
	ID string `arg:"positional,required" help:"video game id"`
}

type args struct {
	DB      string `arg:"--db" help:"database path (overrides config; :memory: when unset)"`
	JSON    bool   `arg:"--json" help:"print results as JSON"`
	Metrics bool   `arg:"--metrics" help:"print store metrics in Prometheus text format after the command"`

	Demo   *demoCmd   `arg:"subcommand:demo" help:"run the insert/list/find/delete walkthrough"`
	Init   *initCmd   `arg:"subcommand:init" help:"create the videogames table (required once for file databases)"`
	Add    *addCmd    `arg:"subcommand:add" help:"add a video game"`
	List   *listCmd   `arg:"subcommand:list" help:"list all video games"`
	Find   *findCmd   `arg:"subcommand:find" help:"find a video game by name"`
	Delete *deleteCmd `arg:"subcommand:delete" help:"delete a video game by id"`
}

func (args) Description() string {
	return "gamedb - video game store on embedded SQLite"
}

func (args) Epilogue() string {
	return "Environment:\n" +
		"  GAMEDB_CONFIG         config file path\n" +
		"  GAMEDB_DB             database path (default: :memory:)\n" +
		"  GAMEDB_LOG_LEVEL      debug, info, warn, error\n" +
		"  GAMEDB_LOG_FORMAT     text or json"
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	shutdown, err := tracing.Setup(ctx, tracing.Config{
		Enabled:  cfg.Tracing.Endpoint != "",
		Endpoint: cfg.Tracing.Endpoint,
	})
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
		shutdown = func(context.Context) error { return nil }
	}

	var a args
	p := arg.MustParse(&a)
	if p.Subcommand() == nil {
		p.WriteHelp(os.Stdout)
		_ = shutdown(ctx)
		os.Exit(1)
	}

	code := execute(ctx, cfg, &a)
	if err := shutdown(ctx); err != nil {
		logging.Error("failed to shutdown tracing", "error", err)
	}
	os.Exit(code)
}

func execute(ctx context.Context, cfg *config.Config, a *args) int {
	dbPath := cfg.GetDBPath()
	if a.DB != "" {
		dbPath = a.DB
	}

	database, err := db.Open(ctx, dbPath)
	if err != nil {
		logging.Error("failed to open database", "path", dbPath, "error", err)
		return 1
	}
	defer func() { _ = database.Close() }()

	store := videogame.NewStore(database)
	inMemory := dbPath == "" || dbPath == db.MemoryPath
	if err := run(ctx, store, a, os.Stdout, inMemory); err != nil {
		logging.Error("command failed", "path", dbPath, "error", err)
		return 1
	}
	return 0
}
