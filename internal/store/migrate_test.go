package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/cc?sslmode=disable", pgx5URL("postgres://u:p@db:5432/cc?sslmode=disable"))
	assert.Equal(t, "pgx5://db/cc", pgx5URL("postgresql://db/cc"))
	assert.Equal(t, "pgx5://db/cc", pgx5URL("pgx5://db/cc"))
}
