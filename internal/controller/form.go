package controller

import (
	"strings"
	"time"
)

// FormLayout - формат поля даты и времени в форме, локальное время без секунд
const FormLayout = "2006-01-02T15:04"

// Form - зеркало полей редактирования выбранной записи
type Form struct {
	Title    string
	Body     string
	RemindAt string
}

// FormatRemindAt переводит момент времени в значение поля формы
func FormatRemindAt(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(FormLayout)
}

// ParseRemindAt разбирает значение поля. Пустое или неверное значение означает
// отсутствие напоминания.
func ParseRemindAt(v string, loc *time.Location) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	t, err := time.ParseInLocation(FormLayout, v, loc)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
