// Package daylog строит журнал обслуживания абонемента: разворачивает
// 30-дневное окно в последовательность дней со статусами, сопоставляет
// разреженную историю выполненных моек, прикрепляет дополнительные услуги
// и находит ближайший день ожидаемой мойки.
//
// Все функции пакета чистые: журнал нигде не хранится и пересчитывается
// при каждом чтении абонемента.
package daylog

import (
	"errors"
	"sort"
	"time"

	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
)

// Status — статус дня в журнале обслуживания.
type Status string

const (
	// StatusCompleted — в этот день мойка была выполнена.
	StatusCompleted Status = "Completed"
	// StatusSkipped — день прошёл, мойка не выполнялась.
	StatusSkipped Status = "Skipped"
	// StatusScheduled — день ещё не наступил или идёт сегодня.
	StatusScheduled Status = "Scheduled"
)

// DefaultServicesTotal — количество моек в абонементе по умолчанию.
const DefaultServicesTotal = 30

var (
	// ErrInvalidSubscriptionState возвращается, если у абонемента нет
	// корректной даты начала. Подставлять "сейчас" вместо неё нельзя.
	ErrInvalidSubscriptionState = errors.New("subscription has no valid start date")
	// ErrCounterDrift возвращается, если счётчик выполненных моек
	// расходится с размером истории.
	ErrCounterDrift = errors.New("services completed counter does not match history size")
)

// Entry — один день журнала обслуживания абонемента.
type Entry struct {
	DayIndex int            `json:"day_index"` // Смещение от даты начала, с нуля
	Date     time.Time      `json:"date"`      // Календарная дата дня
	Status   Status         `json:"status"`    // Статус дня
	Addons   []models.Addon `json:"addons"`    // Дополнительные услуги этого дня
	IsNext   bool           `json:"is_next"`   // Ближайший ожидаемый день мойки
}

// dateOnly отбрасывает время суток, оставляя календарную дату.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay сообщает, приходятся ли два момента на одну календарную дату.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// Build разворачивает абонемент в журнал из servicesTotal дней.
//
// Приоритет статусов: день из истории — Completed; прошедший день без
// записи в истории — Skipped; остальные — Scheduled. Сегодняшний день без
// записи всегда Scheduled, задним числом он пропущенным не помечается.
func Build(sub models.Subscription, now time.Time) ([]Entry, error) {
	if sub.StartDate.IsZero() {
		return nil, ErrInvalidSubscriptionState
	}

	total := sub.ServicesTotal
	if total <= 0 {
		total = DefaultServicesTotal
	}

	completed := make(map[time.Time]bool, len(sub.History))
	for _, h := range sub.History {
		completed[dateOnly(h.Date)] = true
	}

	start := dateOnly(sub.StartDate)
	today := dateOnly(now)

	ledger := make([]Entry, 0, total)
	for i := range total {
		date := start.AddDate(0, 0, i)
		status := StatusScheduled
		switch {
		case completed[date]:
			status = StatusCompleted
		case date.Before(today):
			status = StatusSkipped
		}
		ledger = append(ledger, Entry{
			DayIndex: i,
			Date:     date,
			Status:   status,
		})
	}

	// Порядок по датам гарантирован построением, но потребители журнала
	// зависят от него, поэтому сортируем ещё раз.
	sort.Slice(ledger, func(i, j int) bool { return ledger[i].Date.Before(ledger[j].Date) })

	return ledger, nil
}

// AttachAddons прикрепляет купленные услуги к дням журнала.
//
// Целевая дата услуги — ServiceDate, при её отсутствии — DateAdded.
// Услуга с датой вне окна журнала молча отбрасывается: это штатная
// деградация, а не ошибка. Порядок услуг сохраняется, дубликаты не
// схлопываются. Списки услуг по дням заполняются заново: повторный
// вызов с тем же списком даёт тот же журнал.
func AttachAddons(ledger []Entry, addons []models.Addon) []Entry {
	for i := range ledger {
		ledger[i].Addons = nil
	}
	if len(addons) == 0 {
		return ledger
	}
	index := make(map[time.Time]int, len(ledger))
	for i, e := range ledger {
		index[dateOnly(e.Date)] = i
	}
	for _, a := range addons {
		target := a.DateAdded
		if a.ServiceDate != nil {
			target = *a.ServiceDate
		}
		if i, ok := index[dateOnly(target)]; ok {
			ledger[i].Addons = append(ledger[i].Addons, a)
		}
	}
	return ledger
}

// MarkNext находит самый ранний день со статусом Scheduled, помечает его
// IsNext и возвращает. Возвращает nil, если таких дней нет — абонемент
// полностью истёк или выполнен.
func MarkNext(ledger []Entry) *Entry {
	for i := range ledger {
		if ledger[i].Status == StatusScheduled {
			ledger[i].IsNext = true
			return &ledger[i]
		}
	}
	return nil
}

// QuickNextDate — дешёвое приближение даты следующей мойки для списочных
// экранов: дата начала плюс количество выполненных моек. Совпадает с
// MarkNext, пока счётчик выполненных моек отражает размер истории; это
// инвариант вызывающей стороны, см. ValidateCounters.
func QuickNextDate(sub models.Subscription) time.Time {
	return dateOnly(sub.StartDate).AddDate(0, 0, sub.ServicesCompleted)
}

// IsTodayServiceDone сообщает, израсходована ли уже сегодняшняя мойка:
// расчётная дата следующей мойки ушла за сегодняшний день.
func IsTodayServiceDone(sub models.Subscription, now time.Time) bool {
	return QuickNextDate(sub).After(dateOnly(now))
}

// ValidateCounters проверяет согласованность счётчика выполненных моек
// с размером истории. Расхождение означает частично применённую мутацию
// на сервере и должно всплывать громко, а не тихо искажать расчёты.
func ValidateCounters(sub models.Subscription) error {
	if sub.ServicesCompleted != len(sub.History) {
		return ErrCounterDrift
	}
	return nil
}
