// Package backup кодирует коллекцию записей в файл резервной копии и обратно.
package backup

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"myNotebook/internal/models/item"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FileName - имя файла резервной копии по умолчанию
const FileName = "my-notebook-backup.json"

var (
	ErrNotSequence = errors.New("верхний уровень резервной копии не массив")
	ErrInvalidItem = errors.New("запись не соответствует схеме")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encode пишет массив записей с отступом в два пробела
func Encode(w io.Writer, items []*item.Item) error {
	if items == nil {
		items = []*item.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("кодирование резервной копии: %w", err)
	}
	return nil
}

// Decode разбирает резервную копию. Любая запись, не прошедшая проверку схемы,
// отклоняет импорт целиком.
func Decode(r io.Reader) ([]*item.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("чтение резервной копии: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("разбор JSON: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotSequence
	}

	var items []*item.Item
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it == nil {
			return nil, fmt.Errorf("%w: элемент %d пустой", ErrInvalidItem, i)
		}
		if err := validate.Struct(it); err != nil {
			return nil, fmt.Errorf("%w: элемент %d: %s", ErrInvalidItem, i, describe(err))
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: элемент %d: повторный id %s", ErrInvalidItem, i, it.ID)
		}
		seen[it.ID] = struct{}{}
	}

	if items == nil {
		items = []*item.Item{}
	}
	return items, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		parts = append(parts, fmt.Sprintf("поле %s нарушает правило %s", e.Field(), e.Tag()))
	}
	return strings.Join(parts, "; ")
}

func ExportFile(path string, items []*item.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("создание файла: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, items); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("запись файла: %w", err)
	}
	return f.Close()
}

func ImportFile(path string) ([]*item.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("открытие файла: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
