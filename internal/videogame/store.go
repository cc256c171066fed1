package videogame

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ryanm101/gamedb/internal/db"
	"github.com/ryanm101/gamedb/internal/logging"
	"github.com/ryanm101/gamedb/internal/metrics"
	"github.com/ryanm101/gamedb/internal/tracing"
)

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS videogames (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		rating REAL NOT NULL,
		CONSTRAINT unique_videogame_name UNIQUE(name) ON CONFLICT ROLLBACK
	)
`

// Store runs video game statements against a database. Every method checks
// out a connection, runs one statement and returns the connection before
// returning.
type Store struct {
	db *db.DB
}

// NewStore creates a store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// run wraps a single-statement operation with a span, metrics and a scoped
// connection.
func (s *Store) run(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(context.Context, *sql.Conn) error) error {
	ctx, span := tracing.StartSpan(ctx, "videogame."+op, tracing.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	err := s.db.WithConn(ctx, func(c *sql.Conn) error {
		return fn(ctx, c)
	})
	metrics.RecordOperation(op, start, err)

	if err != nil {
		tracing.RecordError(span, err)
		return err
	}
	tracing.SetSpanOK(span)
	logging.Debug("video game store operation", "op", op, "duration", time.Since(start))
	return nil
}

// CreateTable creates the videogames table if it does not exist.
func (s *Store) CreateTable(ctx context.Context) error {
	return s.run(ctx, "CreateTable", nil, func(ctx context.Context, c *sql.Conn) error {
		if _, err := c.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("failed to create videogames table: %w", err)
		}
		return nil
	})
}

// Insert adds game to the store and writes the assigned id back into it.
// Any id already on game is ignored. A duplicate name fails with
// ErrDuplicate and a non-finite rating with ErrInvalidArg; both leave game
// untouched.
func (s *Store) Insert(ctx context.Context, game *VideoGame) error {
	const op = "insert video game"
	if game == nil {
		return &StoreError{Op: op, Err: fmt.Errorf("%w: nil video game", ErrInvalidArg)}
	}
	// SQLite stores NaN as NULL, which would trip NOT NULL instead.
	if math.IsNaN(game.Rating) || math.IsInf(game.Rating, 0) {
		return &StoreError{Op: op, Name: game.Name, Err: fmt.Errorf("%w: rating %v is not finite", ErrInvalidArg, game.Rating)}
	}

	attrs := []attribute.KeyValue{attribute.String("videogame.name", game.Name)}
	return s.run(ctx, "Insert", attrs, func(ctx context.Context, c *sql.Conn) error {
		res, err := c.ExecContext(ctx, `INSERT INTO videogames (name, rating) VALUES (?, ?)`, game.Name, game.Rating)
		if err != nil {
			return WrapDBError(err, op, game.Name)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return WrapDBError(err, op, game.Name)
		}
		game.SetID(id)
		tracing.AddSpanAttributes(trace.SpanFromContext(ctx), attribute.Int64("videogame.id", id))
		return nil
	})
}

// ListAll returns every game in the store. Order is not defined.
func (s *Store) ListAll(ctx context.Context) ([]VideoGame, error) {
	const op = "list video games"
	games := []VideoGame{}

	err := s.run(ctx, "ListAll", nil, func(ctx context.Context, c *sql.Conn) error {
		rows, err := c.QueryContext(ctx, `SELECT name, rating, id FROM videogames`)
		if err != nil {
			return WrapDBError(err, op, "")
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			game, err := scanGame(rows)
			if err != nil {
				return WrapDBError(err, op, "")
			}
			games = append(games, game)
		}
		if err := rows.Err(); err != nil {
			return WrapDBError(err, op, "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return games, nil
}

// FindByName returns the game with exactly the given name, or ErrNotFound.
func (s *Store) FindByName(ctx context.Context, name string) (*VideoGame, error) {
	const op = "find video game"
	var game VideoGame

	attrs := []attribute.KeyValue{attribute.String("videogame.name", name)}
	err := s.run(ctx, "FindByName", attrs, func(ctx context.Context, c *sql.Conn) error {
		row := c.QueryRowContext(ctx, `SELECT name, rating, id FROM videogames WHERE name = ?`, name)
		var err error
		if game, err = scanGame(row); err != nil {
			return WrapDBError(err, op, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// DeleteByID removes the game with the given id. An unknown id is not an error.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	const op = "delete video game"

	attrs := []attribute.KeyValue{attribute.Int64("videogame.id", id)}
	return s.run(ctx, "DeleteByID", attrs, func(ctx context.Context, c *sql.Conn) error {
		if _, err := c.ExecContext(ctx, `DELETE FROM videogames WHERE id = ?`, id); err != nil {
			return WrapDBError(err, op, "")
		}
		return nil
	})
}

// Count returns the number of games in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.run(ctx, "Count", nil, func(ctx context.Context, c *sql.Conn) error {
		if err := c.QueryRowContext(ctx, `SELECT COUNT(*) FROM videogames`).Scan(&count); err != nil {
			return WrapDBError(err, "count video games", "")
		}
		return nil
	})
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (VideoGame, error) {
	var (
		game VideoGame
		id   int64
	)
	if err := row.Scan(&game.Name, &game.Rating, &id); err != nil {
		return VideoGame{}, err
	}
	game.SetID(id)
	return game, nil
}
