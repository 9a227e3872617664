// Package assign реализует HTTP-обработчик назначения мойщика на абонемент.
//
// Назначение выполняется один раз: повторная попытка возвращает HTTP 409.
// Маршрут доступен только администратору.
package assign

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/gate"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/response"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
	"github.com/magabrotheeeer/carwash-aggregator/internal/storage"
)

// Handler обрабатывает запросы на назначение мойщика.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики назначения мойщика
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики назначения мойщика.
type Service interface {
	AssignWorker(ctx context.Context, id string, req models.DummyAssignWorker) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Назначить мойщика
// @Description Закрепляет мойщика за абонементом. Повторное назначение не допускается.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path string true "ID абонемента"
// @Param request body models.DummyAssignWorker true "Данные мойщика"
// @Success 200 {object} map[string]any "Мойщик назначен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Абонемент не найден"
// @Failure 409 {object} response.ErrorResponse "Мойщик уже назначен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при назначении"
// @Security BearerAuth
// @Router /subscriptions/{id}/worker [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.assign"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing id in url"))
		return
	}

	var req models.DummyAssignWorker
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	if err := h.service.AssignWorker(r.Context(), id, req); err != nil {
		switch {
		case errors.Is(err, gate.ErrAlreadyAssigned):
			log.Error("worker already assigned", slog.String("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("worker already assigned"))
		case errors.Is(err, storage.ErrNotFound):
			log.Error("subscription not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
		default:
			log.Error("failed to assign worker", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not assign worker"))
		}
		return
	}

	log.Info("success to assign worker", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":        id,
		"worker_id": req.WorkerID,
	}))
}
