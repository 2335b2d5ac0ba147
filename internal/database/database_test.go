package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "001_init.up.sql")
	assert.Contains(t, names, "001_init.down.sql")

	up, err := fs.ReadFile(migrationsFS, "migrations/001_init.up.sql")
	require.NoError(t, err)
	for _, table := range []string{"users", "profiles", "posts"} {
		assert.True(t, strings.Contains(string(up), "CREATE TABLE IF NOT EXISTS "+table), table)
	}
	assert.Contains(t, string(up), "ON DELETE CASCADE")
}

func TestMongoIndexes_UniqueKeys(t *testing.T) {
	idx := MongoIndexes()

	require.Len(t, idx["users"], 1)
	assert.True(t, *idx["users"][0].Options.Unique)
	assert.True(t, *idx["profiles"][0].Options.Unique)
	assert.Len(t, idx["posts"], 2)
}
