package sqlitekv_test

import (
	"context"
	"myNotebook/internal/repository/kv/sqlitekv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStorage тестирует хранилище поверх файла SQLite
func TestStorage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notebook.db")

	s, err := sqlitekv.New(ctx, path)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "my_notebook_v1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "my_notebook_v1", `[]`))
	require.NoError(t, s.Set(ctx, "my_notebook_v1", `[{"id":"1"}]`))
	require.NoError(t, s.Set(ctx, "other", `x`))

	v, ok, err := s.Get(ctx, "my_notebook_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)
	require.NoError(t, s.Close())

	// схема создаётся повторно без ошибок, данные сохраняются
	reopened, err := sqlitekv.New(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err = reopened.Get(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}
