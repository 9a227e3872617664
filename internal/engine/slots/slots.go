// Package slots вычисляет доступность слотов записи на мойку.
//
// Каталог слотов статичен; фильтр лишь сужает доступность: слот, занятый
// по каталогу, остаётся занятым, а слоты сегодняшнего дня дополнительно
// закрываются минимальным буфером до начала мойки.
package slots

import (
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
)

// DefaultBufferMinutes — минимальный запас в минутах между "сейчас"
// и началом слота, значение по умолчанию для конфигурации.
const DefaultBufferMinutes = 30

// ErrInvalidSlotFormat возвращается при некорректной строке времени слота.
// Ошибка в любом слоте каталога отменяет весь расчёт, частичный результат
// не возвращается.
var ErrInvalidSlotFormat = errors.New("invalid slot time format")

// clockLayout — 12-часовой формат времени слота, например "09:00 AM".
// Час 12 с AM соответствует началу суток.
const clockLayout = "03:04 PM"

// parseClock разбирает строку времени слота и возвращает момент этого
// времени в пределах календарного дня day.
func parseClock(s string, day time.Time) (time.Time, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSlotFormat, s)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// Filter пересчитывает доступность слотов каталога для даты targetDate.
//
// Если targetDate не совпадает с календарным днём now, доступность равна
// каталожной. Для сегодняшней даты слот дополнительно закрывается, когда
// его начало раньше, чем now + bufferMinutes. Фильтр монотонный: он может
// только убирать доступность, но не добавлять.
func Filter(catalog []models.TimeSlot, targetDate, now time.Time, bufferMinutes int) ([]models.TimeSlot, error) {
	result := make([]models.TimeSlot, len(catalog))

	isToday := targetDate.Year() == now.Year() &&
		targetDate.Month() == now.Month() &&
		targetDate.Day() == now.Day()

	cutoff := now.Add(time.Duration(bufferMinutes) * time.Minute)

	for i, slot := range catalog {
		slot.Available = slot.BaseAvailable
		if isToday {
			instant, err := parseClock(slot.Time, now)
			if err != nil {
				return nil, err
			}
			if instant.Before(cutoff) {
				slot.Available = false
			}
		}
		result[i] = slot
	}
	return result, nil
}
