// Package videogame stores video games in a single SQLite table.
package videogame

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// VideoGame is one row of the videogames table. The id is unset until the
// game has been inserted.
type VideoGame struct {
	Name   string
	Rating float64

	id    int64
	hasID bool
}

// New returns a game that has not been persisted yet.
func New(name string, rating float64) *VideoGame {
	return &VideoGame{Name: name, Rating: rating}
}

// ID returns the store-assigned identifier and whether it is set.
func (g VideoGame) ID() (int64, bool) {
	return g.id, g.hasID
}

// HasID reports whether the game has been assigned an identifier.
func (g VideoGame) HasID() bool {
	return g.hasID
}

// SetID assigns the identifier.
func (g *VideoGame) SetID(id int64) {
	g.id = id
	g.hasID = true
}

// Equal reports whether two games hold the same name, rating and identifier.
func (g VideoGame) Equal(other VideoGame) bool {
	return g.Name == other.Name &&
		g.Rating == other.Rating &&
		g.hasID == other.hasID &&
		g.id == other.id
}

func (g VideoGame) String() string {
	id := "unset"
	if g.hasID {
		id = strconv.FormatInt(g.id, 10)
	}
	return fmt.Sprintf("VideoGame{name=%q, rating=%g, id=%s}", g.Name, g.Rating, id)
}

type videoGameJSON struct {
	ID     *int64  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// MarshalJSON omits the id when it is unset.
func (g VideoGame) MarshalJSON() ([]byte, error) {
	out := videoGameJSON{Name: g.Name, Rating: g.Rating}
	if g.hasID {
		id := g.id
		out.ID = &id
	}
	return json.Marshal(out)
}

// ParseID converts an untyped value to an identifier. Go integer kinds and
// base-10 integer strings are accepted; anything else is ErrInvalidID.
func ParseID(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrInvalidID, x)
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrInvalidID, x)
		}
		return int64(x), nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidID, x)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("%w: got %T", ErrInvalidID, v)
	}
}
