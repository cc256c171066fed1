package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ryanm101/gamedb/internal/metrics"
	"github.com/ryanm101/gamedb/internal/videogame"
)

// run dispatches the selected subcommand and, with --metrics, prints the
// store metrics afterwards. ensureTable creates the table before any command;
// main sets it for :memory: databases, which start empty on every run.
func run(ctx context.Context, store *videogame.Store, a *args, out io.Writer, ensureTable bool) error {
	if err := dispatch(ctx, store, a, out, ensureTable); err != nil {
		return err
	}
	if a.Metrics {
		return writeMetrics(ctx, store, out)
	}
	return nil
}

func dispatch(ctx context.Context, store *videogame.Store, a *args, out io.Writer, ensureTable bool) error {
	switch {
	case a.Init != nil:
		if err := store.CreateTable(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "videogames table ready")
		return nil
	case a.Demo != nil:
		if err := store.CreateTable(ctx); err != nil {
			return err
		}
		return runDemo(ctx, store, out)
	}

	if ensureTable {
		if err := store.CreateTable(ctx); err != nil {
			return err
		}
	}

	switch {
	case a.Add != nil:
		return runAdd(ctx, store, a.Add, a.JSON, out)
	case a.List != nil:
		return runList(ctx, store, a.JSON, out)
	case a.Find != nil:
		return runFind(ctx, store, a.Find.Name, a.JSON, out)
	case a.Delete != nil:
		return runDelete(ctx, store, a.Delete.ID, out)
	default:
		return fmt.Errorf("%w: no command given", videogame.ErrInvalidArg)
	}
}

func writeMetrics(ctx context.Context, store *videogame.Store, out io.Writer) error {
	if err := metrics.UpdateStoreMetrics(ctx, store); err != nil {
		return fmt.Errorf("failed to update store metrics: %w", err)
	}
	return metrics.WriteText(out)
}

// runDemo walks one game through insert, list, find and delete.
func runDemo(ctx context.Context, store *videogame.Store, out io.Writer) error {
	satisfactory := videogame.New("Satisfactory", 90)
	_, _ = fmt.Fprintf(out, "Before adding to database: %s\n", satisfactory)

	if err := store.Insert(ctx, satisfactory); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "After adding to database: %s\n", satisfactory)

	games, err := store.ListAll(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Retrieved games from database: %s\n", formatGames(games))

	found, err := store.FindByName(ctx, "Satisfactory")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Retrieved single game from database: %s\n", found)

	id, _ := found.ID()
	if err := store.DeleteByID(ctx, id); err != nil {
		return err
	}

	games, err = store.ListAll(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Games after deleting Satisfactory: %s\n", formatGames(games))
	return nil
}

func runAdd(ctx context.Context, store *videogame.Store, cmd *addCmd, asJSON bool, out io.Writer) error {
	rating, err := parseRating(cmd.Rating)
	if err != nil {
		return err
	}

	game := videogame.New(cmd.Name, rating)
	if err := store.Insert(ctx, game); err != nil {
		return err
	}

	if asJSON {
		return printJSON(out, game)
	}
	id, _ := game.ID()
	_, _ = fmt.Fprintf(out, "Added %q with id %d\n", game.Name, id)
	return nil
}

func runList(ctx context.Context, store *videogame.Store, asJSON bool, out io.Writer) error {
	games, err := store.ListAll(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(out, games)
	}

	if len(games) == 0 {
		_, _ = fmt.Fprintln(out, "No video games stored.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"ID", "Name", "Rating"})
	for _, g := range games {
		id, _ := g.ID()
		tw.AppendRow(table.Row{id, g.Name, strconv.FormatFloat(g.Rating, 'f', -1, 64)})
	}
	tw.Render()
	return nil
}

func runFind(ctx context.Context, store *videogame.Store, name string, asJSON bool, out io.Writer) error {
	game, err := store.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(out, game)
	}
	_, _ = fmt.Fprintln(out, game)
	return nil
}

func runDelete(ctx context.Context, store *videogame.Store, rawID string, out io.Writer) error {
	id, err := videogame.ParseID(rawID)
	if err != nil {
		return err
	}
	if err := store.DeleteByID(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Deleted id %d\n", id)
	return nil
}

// parseRating rejects ratings that are not finite numbers.
func parseRating(s string) (float64, error) {
	rating, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return 0, fmt.Errorf("%w: rating %q is not a number", videogame.ErrInvalidArg, s)
	}
	return rating, nil
}

func formatGames(games []videogame.VideoGame) string {
	parts := make([]string, len(games))
	for i, g := range games {
		parts[i] = g.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func printJSON(out io.Writer, data any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
