// Package notify - способность показывать уведомления с разрешением пользователя.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"myNotebook/internal/logger"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Permission string

const PermissionDefault Permission = "default"
const PermissionGranted Permission = "granted"
const PermissionDenied Permission = "denied"

var ErrUnsupported = errors.New("уведомления не поддерживаются")

func ParsePermission(s string) (Permission, error) {
	switch p := Permission(s); p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return p, nil
	case "":
		return PermissionDefault, nil
	}
	return "", fmt.Errorf("неизвестное значение разрешения %q", s)
}

type Notification struct {
	Title string
	Body  string
	At    time.Time
}

// Sink доставляет уведомление пользователю (терминал, журнал, интерфейс)
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// Prompter спрашивает пользователя, разрешить ли уведомления
type Prompter func(ctx context.Context) (bool, error)

type Center struct {
	mtx        sync.RWMutex
	sink       Sink
	permission Permission
	prompt     Prompter
	now        func() time.Time
}

func NewCenter(sink Sink, permission Permission, prompt Prompter) *Center {
	if permission == "" {
		permission = PermissionDefault
	}
	return &Center{
		sink:       sink,
		permission: permission,
		prompt:     prompt,
		now:        time.Now,
	}
}

func (c *Center) Permission() Permission {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return c.permission
}

// SetSink меняет способ доставки, например когда запускается терминальный интерфейс
func (c *Center) SetSink(sink Sink) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.sink = sink
}

func (c *Center) SetPrompter(prompt Prompter) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.prompt = prompt
}

// RequestPermission возвращает уже принятое решение или спрашивает пользователя.
// Без Prompter разрешение остаётся default. При новом разрешении показывается
// подтверждающее уведомление.
func (c *Center) RequestPermission(ctx context.Context) (Permission, error) {
	c.mtx.Lock()
	if c.sink == nil {
		c.mtx.Unlock()
		return PermissionDenied, ErrUnsupported
	}
	if c.permission != PermissionDefault || c.prompt == nil {
		p := c.permission
		c.mtx.Unlock()
		return p, nil
	}
	prompt := c.prompt
	c.mtx.Unlock()

	ok, err := prompt(ctx)
	if err != nil {
		return PermissionDefault, fmt.Errorf("запрос разрешения: %w", err)
	}

	c.mtx.Lock()
	if ok {
		c.permission = PermissionGranted
	} else {
		c.permission = PermissionDenied
	}
	p := c.permission
	c.mtx.Unlock()

	logger.Info("Notify: Решение по уведомлениям", zap.String("permission", string(p)))

	if p == PermissionGranted {
		if err := c.Show(ctx, "Готово ✅", "Сповіщення дозволені."); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Show ничего не делает, пока разрешение не выдано
func (c *Center) Show(ctx context.Context, title, body string) error {
	c.mtx.RLock()
	sink, permission := c.sink, c.permission
	c.mtx.RUnlock()

	if sink == nil || permission != PermissionGranted {
		logger.Debug("Notify: Уведомление пропущено", zap.String("permission", string(permission)))
		return nil
	}

	n := Notification{Title: title, Body: body, At: c.now()}
	if err := sink.Deliver(ctx, n); err != nil {
		return fmt.Errorf("доставка уведомления: %w", err)
	}
	return nil
}

// WriterSink печатает уведомление в поток со звуковым сигналом
type WriterSink struct {
	mtx sync.Mutex
	w   io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Deliver(ctx context.Context, n Notification) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	_, err := fmt.Fprintf(s.w, "\a🔔 %s  %s\n   %s\n", n.At.Local().Format("15:04"), n.Title, n.Body)
	return err
}

// LogSink пишет уведомления только в журнал
type LogSink struct{}

func (LogSink) Deliver(ctx context.Context, n Notification) error {
	logger.Info("Notify: Уведомление", zap.String("title", n.Title), zap.String("body", n.Body))
	return nil
}
