// Package list реализует HTTP-обработчик получения каталога слотов записи.
//
// Для сегодняшней даты доступность пересчитывается с учетом буфера до начала
// мойки; для будущих дат каталог возвращается как есть.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/slots"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/response"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
)

// Handler обрабатывает запросы на получение слотов записи.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики слотов
}

// Service описывает интерфейс бизнес-логики доступности слотов.
type Service interface {
	Today() time.Time
	ListForDate(ctx context.Context, targetDate time.Time) ([]models.TimeSlot, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Слоты записи на дату
// @Description Возвращает каталог слотов с доступностью для указанной даты. Без параметра date используется сегодня.
// @Tags Slots
// @Produce  json
// @Param date query string false "Дата в формате 2006-01-02"
// @Success 200 {object} map[string]any "Каталог слотов"
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении слотов"
// @Security BearerAuth
// @Router /slots [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.slots.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var targetDate time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			log.Error("failed to parse date from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid date, expected format 2006-01-02"))
			return
		}
		targetDate = parsed
	} else {
		// Дата по умолчанию берётся у сервиса: расчёт доступности
		// и обработчик должны смотреть на одни и те же часы.
		targetDate = h.service.Today()
	}

	res, err := h.service.ListForDate(r.Context(), targetDate)
	if err != nil {
		if errors.Is(err, slots.ErrInvalidSlotFormat) {
			log.Error("slot catalog is malformed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("slot catalog is malformed"))
			return
		}
		log.Error("failed to list slots", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list slots"))
		return
	}

	log.Info("success to list slots", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"date":  targetDate.Format("2006-01-02"),
		"slots": res,
	}))
}
