// Package slotservice отдаёт каталог слотов записи с доступностью,
// пересчитанной движком с учётом буфера до начала мойки.
package slotservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/clock"
	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/slots"
	"github.com/magabrotheeeer/carwash-aggregator/internal/metrics"
	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
)

// SlotRepository определяет доступ к статическому каталогу слотов.
type SlotRepository interface {
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
}

// SlotService пересчитывает доступность слотов для заданной даты.
type SlotService struct {
	repo          SlotRepository
	clk           clock.Clock
	log           *slog.Logger
	bufferMinutes int
}

// NewSlotService создает новый SlotService.
// bufferMinutes — минимальный запас до начала слота из конфигурации.
func NewSlotService(repo SlotRepository, clk clock.Clock, log *slog.Logger, bufferMinutes int) *SlotService {
	if bufferMinutes <= 0 {
		bufferMinutes = slots.DefaultBufferMinutes
	}
	return &SlotService{
		repo:          repo,
		clk:           clk,
		log:           log,
		bufferMinutes: bufferMinutes,
	}
}

// Today возвращает текущую дату по часам сервиса. Обработчики используют
// её как дату по умолчанию, чтобы не расходиться с расчётом доступности.
func (s *SlotService) Today() time.Time {
	return s.clk.Now()
}

// ListForDate возвращает каталог слотов с доступностью для даты targetDate.
func (s *SlotService) ListForDate(ctx context.Context, targetDate time.Time) ([]models.TimeSlot, error) {
	catalog, err := s.repo.ListTimeSlots(ctx)
	if err != nil {
		return nil, err
	}

	metrics.SlotFilterRequests.Inc()
	return slots.Filter(catalog, targetDate, s.clk.Now(), s.bufferMinutes)
}
