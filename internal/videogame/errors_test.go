package videogame

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError_Error(t *testing.T) {
	err := &StoreError{
		Op:   "insert video game",
		Name: "Satisfactory",
		Err:  ErrDuplicate,
	}

	assert.Equal(t, "insert video game 'Satisfactory': duplicate entry", err.Error())
}

func TestStoreError_ErrorNoName(t *testing.T) {
	err := &StoreError{
		Op:  "list video games",
		Err: ErrDatabase,
	}

	assert.Equal(t, "list video games: database error", err.Error())
}

func TestStoreError_Unwrap(t *testing.T) {
	err := &StoreError{Op: "test", Err: ErrNotFound}

	assert.Equal(t, ErrNotFound, err.Unwrap())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWrapDBError_Nil(t *testing.T) {
	assert.Nil(t, WrapDBError(nil, "test", ""))
}

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"unique constraint message", errors.New("UNIQUE constraint failed: videogames.name"), ErrDuplicate},
		{"not null constraint message", errors.New("NOT NULL constraint failed: videogames.rating"), ErrInvalidArg},
		{"no such table", errors.New("no such table: videogames"), ErrDatabase},
		{"generic", errors.New("disk I/O error"), ErrDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapDBError(tt.err, "op", "Satisfactory")

			var storeErr *StoreError
			assert.True(t, errors.As(err, &storeErr))
			assert.Equal(t, "op", storeErr.Op)
			assert.Equal(t, "Satisfactory", storeErr.Name)
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, tt.err, "driver error should stay in the chain")
		})
	}
}

func TestWrapDBError_NoRowsNotDuplicate(t *testing.T) {
	err := WrapDBError(sql.ErrNoRows, "find video game", "Nonexistent")
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.NotErrorIs(t, err, ErrDatabase)
}

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.Equal(t, "duplicate entry", ErrDuplicate.Error())
	assert.Equal(t, "invalid identifier", ErrInvalidID.Error())
	assert.Equal(t, "invalid argument", ErrInvalidArg.Error())
	assert.Equal(t, "database error", ErrDatabase.Error())
}
