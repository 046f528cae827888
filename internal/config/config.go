// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage       StorageConfig       `yaml:"storage"`
	Logging       LoggingConfig       `yaml:"logging"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Reminders     RemindersConfig     `yaml:"reminders"`
	Server        ServerConfig        `yaml:"server"`
	Background    BackgroundConfig    `yaml:"background"`
	Backup        BackupConfig        `yaml:"backup"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // "file", "sqlite", "postgres", "redis" или "memory"
	Key    string `yaml:"key"`
	Path   string `yaml:"path"` // каталог для file, файл базы для sqlite
	URL    string `yaml:"url"`  // строка подключения postgres или redis
}

type LoggingConfig struct {
	Development bool   `yaml:"development"`
	Output      string `yaml:"output"` // пусто - stderr
}

type NotificationsConfig struct {
	Permission string `yaml:"permission"` // default, granted, denied
}

type RemindersConfig struct {
	Resync        string `yaml:"resync"` // расписание cron, пусто - без пересчёта
	TitleFallback string `yaml:"title_fallback"`
	BodyFallback  string `yaml:"body_fallback"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type BackgroundConfig struct {
	HelperPath string `yaml:"helper_path"`
}

type BackupConfig struct {
	Dir string `yaml:"dir"` // куда интерфейс пишет резервную копию, пусто - текущий каталог
}

const DriverFile = "file"
const DriverSQLite = "sqlite"
const DriverPostgres = "postgres"
const DriverRedis = "redis"
const DriverMemory = "memory"

func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".notebook"
	}
	return filepath.Join(home, ".notebook")
}

// DefaultPath - config.yml в каталоге данных
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.yml")
}

func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: DriverFile,
			Key:    "my_notebook_v1",
			Path:   DataDir(),
		},
		Notifications: NotificationsConfig{
			Permission: "default",
		},
		Reminders: RemindersConfig{
			Resync:        "@every 5m",
			TitleFallback: "Нагадування",
			BodyFallback:  "Пора зробити це 🙂",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}

// Load читает YAML поверх значений по умолчанию. Пустой путь или отсутствующий
// файл дают конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	// пустой файл - тоже конфигурация по умолчанию
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save записывает конфигурацию, создавая каталог при необходимости
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("сериализация конфигурации: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("не могу создать каталог для %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("не могу записать %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path обязателен для драйвера %s", c.Storage.Driver)
		}
	case DriverPostgres, DriverRedis:
		if c.Storage.URL == "" {
			return fmt.Errorf("storage.url обязателен для драйвера %s", c.Storage.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("неизвестный storage.driver %q", c.Storage.Driver)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
