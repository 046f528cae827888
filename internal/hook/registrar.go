// Package hook устанавливает фоновый помощник, который держит напоминания
// живыми, когда интерфейс закрыт.
package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"myNotebook/internal/logger"
	"os"
	"path/filepath"
	"text/template"

	"go.uber.org/zap"
)

type Registrar interface {
	Register(ctx context.Context) error
}

var ErrNotConfigured = errors.New("путь фонового помощника не задан")

var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=myNotebook reminders

[Service]
ExecStart={{.Executable}}{{if .ConfigPath}} -config {{.ConfigPath}}{{end}} daemon
Restart=on-failure

[Install]
WantedBy=default.target
`))

// HelperFile пишет файл пользовательского сервиса systemd, запускающий `notebook daemon`
type HelperFile struct {
	Path       string
	Executable string
	ConfigPath string
}

func NewHelperFile(path, configPath string) *HelperFile {
	exe, err := os.Executable()
	if err != nil {
		exe = "notebook"
	}
	return &HelperFile{Path: path, Executable: exe, ConfigPath: configPath}
}

func (h *HelperFile) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := unitTemplate.Execute(&buf, h); err != nil {
		return nil, fmt.Errorf("шаблон помощника: %w", err)
	}
	return buf.Bytes(), nil
}

// Register не трогает файл, если его содержимое уже совпадает
func (h *HelperFile) Register(ctx context.Context) error {
	if h.Path == "" {
		return ErrNotConfigured
	}

	content, err := h.Render()
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(h.Path)
	if err == nil && bytes.Equal(existing, content) {
		return nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("чтение помощника: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(h.Path), 0o755); err != nil {
		return fmt.Errorf("создание каталога помощника: %w", err)
	}
	if err := os.WriteFile(h.Path, content, 0o644); err != nil {
		return fmt.Errorf("запись помощника: %w", err)
	}

	logger.Info("Hook: Фоновый помощник установлен", zap.String("path", h.Path))
	return nil
}

// RegisterBestEffort вызывает регистрацию и только пишет в журнал при ошибке
func RegisterBestEffort(ctx context.Context, r Registrar) {
	if r == nil {
		return
	}
	if err := r.Register(ctx); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			logger.Debug("Hook: Фоновый помощник не настроен")
			return
		}
		logger.Warn("Hook: Не удалось установить фонового помощника", zap.Error(err))
	}
}
