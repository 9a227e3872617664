// Package gate реализует машину состояний назначения мойщика на абонемент
// и идемпотентный переход "мойка за сегодня выполнена".
//
// Состояний два: Unassigned и Assigned. Переход в Assigned единственный и
// обратного пути нет — снять мойщика с абонемента в текущем цикле нельзя.
// Из Assigned многократно допустим переход MarkDailyDone, но не чаще
// одного раза за календарный день.
//
// Функции пакета чистые и работают со свежим снимком абонемента; гарантию
// "не более одной записи истории на дату" при гонке двух вызывающих сторон
// обеспечивает уникальный индекс в базе, а не этот пакет.
package gate

import (
	"errors"
	"time"

	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/daylog"
	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
)

var (
	// ErrAlreadyAssigned возвращается при попытке назначить мойщика
	// на абонемент, где мойщик уже есть.
	ErrAlreadyAssigned = errors.New("worker already assigned to subscription")
	// ErrNotAssigned возвращается при попытке отметить мойку на
	// абонементе без назначенного мойщика.
	ErrNotAssigned = errors.New("no worker assigned to subscription")
	// ErrAlreadyMarkedToday возвращается при повторной отметке мойки
	// в один календарный день.
	ErrAlreadyMarkedToday = errors.New("daily service already marked done today")
	// ErrSubscriptionExhausted возвращается, когда все мойки абонемента
	// уже израсходованы.
	ErrSubscriptionExhausted = errors.New("subscription has no services left")
)

// AssignWorker выполняет переход Unassigned -> Assigned и возвращает
// обновлённый снимок абонемента. Повторное назначение недопустимо.
func AssignWorker(sub models.Subscription, worker models.Worker) (models.Subscription, error) {
	if sub.Worker != nil {
		return sub, ErrAlreadyAssigned
	}
	sub.Worker = &worker
	return sub, nil
}

// MarkDailyDone выполняет переход "мойка за сегодня выполнена": добавляет
// в историю запись с сегодняшней датой и увеличивает счётчик выполненных
// моек ровно на единицу.
//
// Переход допустим только с назначенным мойщиком, согласованными
// счётчиками и если сегодняшняя мойка ещё не израсходована.
func MarkDailyDone(sub models.Subscription, now time.Time) (models.Subscription, error) {
	if sub.Worker == nil {
		return sub, ErrNotAssigned
	}
	if err := daylog.ValidateCounters(sub); err != nil {
		return sub, err
	}

	total := sub.ServicesTotal
	if total <= 0 {
		total = daylog.DefaultServicesTotal
	}
	if sub.ServicesCompleted >= total {
		return sub, ErrSubscriptionExhausted
	}

	if daylog.IsTodayServiceDone(sub, now) {
		return sub, ErrAlreadyMarkedToday
	}
	for _, h := range sub.History {
		if daylog.SameDay(h.Date, now) {
			return sub, ErrAlreadyMarkedToday
		}
	}

	sub.History = append(sub.History, models.HistoryEntry{Date: now})
	sub.ServicesCompleted++
	return sub, nil
}
