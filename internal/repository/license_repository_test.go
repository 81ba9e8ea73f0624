package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestLikePatternEscapesWildcards(t *testing.T) {
	tests := map[string]string{
		"":          "%%",
		"one":       "%one%",
		"CONST_ONE": `%CONST\_ONE%`,
		"50%":       `%50\%%`,
		`a\b`:       `%a\\b%`,
	}
	for in, want := range tests {
		assert.Equal(t, want, likePattern(in), in)
	}
}

func TestParseKey(t *testing.T) {
	key, ok := parseKey(" 6F9619FF-8B86-D011-B42D-00C04FC964FF ")
	assert.True(t, ok)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", key)

	_, ok = parseKey("sfsdfsdf")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify("op", nil))

	transport := errors.New("connection reset")
	assert.Same(t, transport, classify("op", transport))

	pgErr := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	err := classify("insert license", pgErr)
	var storeErr *StoreError
	assert.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "23505", storeErr.Code)
	assert.Equal(t, "insert license: duplicate key value violates unique constraint", err.Error())
	assert.True(t, IsStoreError(err))
	assert.True(t, errors.Is(err, pgErr))
}
