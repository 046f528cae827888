package hook_test

import (
	"context"
	"errors"
	"myNotebook/internal/hook"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRender тестирует содержимое файла помощника
func TestRender(t *testing.T) {
	h := &hook.HelperFile{Path: "x", Executable: "/usr/bin/notebook", ConfigPath: "/home/u/.notebook/config.yml"}

	content, err := h.Render()
	require.NoError(t, err)
	assert.Contains(t, string(content), "ExecStart=/usr/bin/notebook -config /home/u/.notebook/config.yml daemon\n")

	h.ConfigPath = ""
	content, err = h.Render()
	require.NoError(t, err)
	assert.Contains(t, string(content), "ExecStart=/usr/bin/notebook daemon\n")
}

// TestRegister тестирует установку помощника и повторный вызов
func TestRegister(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "systemd", "user", "notebook.service")
	h := &hook.HelperFile{Path: path, Executable: "/usr/bin/notebook"}

	require.NoError(t, h.Register(ctx))

	// одинаковое содержимое не перезаписывается
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))
	require.NoError(t, h.Register(ctx))
	again, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, again.ModTime().Before(time.Now().Add(-30*time.Minute)))

	// изменённые настройки перезаписывают файл
	h.ConfigPath = "/etc/notebook.yml"
	require.NoError(t, h.Register(ctx))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-config /etc/notebook.yml daemon")
}

// TestRegister_NotConfigured тестирует пустой путь
func TestRegister_NotConfigured(t *testing.T) {
	err := (&hook.HelperFile{}).Register(context.Background())
	assert.ErrorIs(t, err, hook.ErrNotConfigured)
}

type countingRegistrar struct {
	calls int
	err   error
}

func (r *countingRegistrar) Register(ctx context.Context) error {
	r.calls++
	return r.err
}

// TestRegisterBestEffort тестирует, что ошибки регистрации не всплывают
func TestRegisterBestEffort(t *testing.T) {
	ctx := context.Background()

	hook.RegisterBestEffort(ctx, nil)

	for _, err := range []error{nil, hook.ErrNotConfigured, errors.New("read-only fs")} {
		r := &countingRegistrar{err: err}
		assert.NotPanics(t, func() { hook.RegisterBestEffort(ctx, r) })
		assert.Equal(t, 1, r.calls)
	}
}

// TestNewHelperFile тестирует заполнение пути к исполняемому файлу
func TestNewHelperFile(t *testing.T) {
	h := hook.NewHelperFile("/tmp/notebook.service", "/tmp/config.yml")
	assert.NotEmpty(t, h.Executable)
	assert.Equal(t, "/tmp/notebook.service", h.Path)
	assert.Equal(t, "/tmp/config.yml", h.ConfigPath)
}
