package conf

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Should_Apply_Values_Over_Defaults(t *testing.T) {
	path := t.TempDir() + "/perch.ini"
	require.NoError(t, os.WriteFile(path, []byte("db_file = data/my.db\npool_size = 8\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/my.db", cfg.DBFile)
	assert.Equal(t, 8, cfg.PoolSize)
	assert.Equal(t, "info", cfg.LogLevel, "missing keys keep their defaults")
}

func TestLoad_Should_Return_Error_For_Missing_File(t *testing.T) {
	_, err := Load("does-not-exist.ini")
	assert.Error(t, err)
}
