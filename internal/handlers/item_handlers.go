package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"myNotebook/internal/backup"
	"myNotebook/internal/handlers/dto"
	"myNotebook/internal/logger"
	"myNotebook/internal/models/item"
	"myNotebook/internal/service"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// предел размера тела импорта
const maxImportSize = 10 << 20

type ItemHandler struct {
	Notebook NotebookService
}

func NewItemHandler(notebook NotebookService) ItemHandler {
	return ItemHandler{
		Notebook: notebook,
	}
}

func (h *ItemHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", "my-notebook"),
		toPayload("time", time.Now().UTC()),
	)
}

// ListItems - GET /items?tab=plans&q=...
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tab := service.Tab(r.URL.Query().Get("tab"))
	if tab == "" {
		tab = service.TabPlans
	}
	if !slices.Contains(service.Tabs, tab) {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("query", "tab"),
			zap.String("value", string(tab)),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "tab должен быть plans, notes или done")
		return
	}

	items := h.Notebook.VisibleItems(r.Context(), tab, r.URL.Query().Get("q"))

	logger.Debug("HTTP_OUT: Список записей",
		zap.String("tab", string(tab)),
		zap.Int("count", len(items)),
		zap.Duration("ms", time.Since(start)))

	writeJSON(w, http.StatusOK, dto.FromItemList(items))
}

func (h *ItemHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	typ := item.Type(request.Type)
	if typ == "" {
		typ = item.TypePlan
	}

	created, err := h.Notebook.CreateItem(r.Context(), typ, request.Title, request.Body, request.RemindAt)
	if err != nil {
		handleServiceError(w, r, err, "create_item")
		return
	}

	logger.Info("HTTP_OUT: Запись создана",
		zap.String("item_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.FromItem(created))
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.Notebook.GetItem(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_item")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItem(found))
}

// UpdateItem - PUT /items/{id}; поля, которых нет в запросе, остаются прежними
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.UpdateItemRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	current, err := h.Notebook.GetItem(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "update_item")
		return
	}

	title, body, remindAt := current.Title, current.Body, current.RemindAt
	if request.Title != nil {
		title = *request.Title
	}
	if request.Body != nil {
		body = *request.Body
	}
	if request.RemindAt != nil {
		remindAt = request.RemindAt
	}
	if request.ClearRemindAt {
		remindAt = nil
	}

	updated, err := h.Notebook.EditItem(r.Context(), id, title, body, remindAt)
	if err != nil {
		handleServiceError(w, r, err, "update_item")
		return
	}

	logger.Info("HTTP_OUT: Запись обновлена",
		zap.String("item_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromItem(updated))
}

func (h *ItemHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	updated, err := h.Notebook.MarkDone(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "mark_done")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItem(updated))
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Notebook.DeleteItem(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_item")
		return
	}

	logger.Info("HTTP_OUT: Запись удалена",
		zap.String("item_id", id),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

// Export отдаёт всю коллекцию файлом my-notebook-backup.json
func (h *ItemHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Notebook.Export(r.Context(), &buf); err != nil {
		handleServiceError(w, r, err, "export")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.FileName))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Import принимает файл резервной копии в теле запроса или в поле file формы
func (h *ItemHandler) Import(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	body := r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			logger.Warn("HTTP: Нет файла импорта",
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "ожидается поле file")
			return
		}
		defer file.Close()
		body = file
	}

	count, err := h.Notebook.Import(r.Context(), body)
	if err != nil {
		handleServiceError(w, r, err, "import")
		return
	}

	logger.Info("HTTP_OUT: Импорт выполнен",
		zap.Int("count", count),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, toPayload("imported", count))
}
