// Package complete реализует HTTP-обработчик отметки сегодняшней мойки
// выполненной.
//
// Повторная отметка за тот же день возвращает HTTP 409, включая случай, когда
// гонку двух запросов разрешил уникальный индекс в базе. Тела запроса нет:
// день определяется серверными часами.
package complete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/gate"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/response"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/carwash-aggregator/internal/storage"
)

// Handler обрабатывает запросы на отметку выполненной мойки.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики отметки мойки
}

// Service описывает интерфейс бизнес-логики отметки выполненной мойки.
type Service interface {
	MarkDailyDone(ctx context.Context, id string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отметить сегодняшнюю мойку выполненной
// @Description Записывает выполненную мойку за сегодня и увеличивает счетчик. Не более одной отметки в день.
// @Tags Subscriptions
// @Produce  json
// @Param id path string true "ID абонемента"
// @Success 200 {object} map[string]any "Мойка отмечена"
// @Failure 404 {object} response.ErrorResponse "Абонемент не найден"
// @Failure 409 {object} response.ErrorResponse "Мойка за сегодня уже отмечена"
// @Failure 422 {object} response.ErrorResponse "Мойщик не назначен или абонемент исчерпан"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при отметке"
// @Security BearerAuth
// @Router /subscriptions/{id}/complete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.complete"

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

	if err := h.service.MarkDailyDone(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, gate.ErrAlreadyMarkedToday):
			log.Error("service already marked today", slog.String("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("service already marked today"))
		case errors.Is(err, gate.ErrNotAssigned):
			log.Error("worker is not assigned", slog.String("id", id))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("worker is not assigned"))
		case errors.Is(err, gate.ErrSubscriptionExhausted):
			log.Error("subscription is exhausted", slog.String("id", id))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("subscription is exhausted"))
		case errors.Is(err, storage.ErrNotFound):
			log.Error("subscription not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
		default:
			log.Error("failed to mark service done", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not mark service done"))
		}
		return
	}

	log.Info("success to mark service done", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
