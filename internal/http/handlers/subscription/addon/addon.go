// Package addon реализует HTTP-обработчик покупки дополнительной услуги
// к абонементу: воск, чернение резины, уборка салона и тому подобное.
package addon

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/carwash-aggregator/internal/http/response"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
)

// Handler обрабатывает запросы на покупку дополнительной услуги.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики дополнительных услуг
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики покупки дополнительной услуги.
type Service interface {
	AddAddon(ctx context.Context, id string, req models.DummyAddon) (int, error)
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
// @Summary Купить дополнительную услугу
// @Description Добавляет дополнительную услугу к абонементу. Услуга появится в журнале при следующем чтении.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path string true "ID абонемента"
// @Param request body models.DummyAddon true "Данные услуги"
// @Success 200 {object} map[string]any "Услуга добавлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при добавлении услуги"
// @Security BearerAuth
// @Router /subscriptions/{id}/addons [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.addon"

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

	var req models.DummyAddon
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

	addonID, err := h.service.AddAddon(r.Context(), id, req)
	if err != nil {
		log.Error("failed to add addon", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add addon"))
		return
	}

	log.Info("success to add addon", slog.Int("addon_id", addonID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"addon_id": addonID,
	}))
}
