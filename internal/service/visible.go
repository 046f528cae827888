package service

import (
	"myNotebook/internal/models/item"
	"sort"
	"strings"
)

type Tab string

const TabPlans Tab = "plans"
const TabNotes Tab = "notes"
const TabDone Tab = "done"

var Tabs = []Tab{TabPlans, TabNotes, TabDone}

// Visible - чистая функция: отбор по вкладке, поиск без учёта регистра по
// заголовку или тексту, сортировка от последних изменённых.
// Вкладка done показывает все выполненные записи, любая другая - активные записи своего типа.
func Visible(items []*item.Item, tab Tab, query string) []*item.Item {
	q := strings.ToLower(strings.TrimSpace(query))

	res := make([]*item.Item, 0, len(items))
	for _, it := range items {
		if tab == TabDone {
			if !it.IsDone() {
				continue
			}
		} else if string(it.Type) != string(tab) || it.IsDone() {
			continue
		}

		if q != "" &&
			!strings.Contains(strings.ToLower(it.Title), q) &&
			!strings.Contains(strings.ToLower(it.Body), q) {
			continue
		}
		res = append(res, it)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Touched().After(res[j].Touched())
	})
	return res
}
