// Package metrics содержит счётчики Prometheus автомоечного сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ServicesMarkedDone считает успешные отметки "мойка за сегодня выполнена".
	ServicesMarkedDone = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carwash_services_marked_done_total",
		Help: "Total number of daily services marked done.",
	})

	// WorkersAssigned считает назначения мойщиков на абонементы.
	WorkersAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carwash_workers_assigned_total",
		Help: "Total number of worker assignments.",
	})

	// SlotFilterRequests считает запросы доступности слотов.
	SlotFilterRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carwash_slot_filter_requests_total",
		Help: "Total number of slot availability computations.",
	})
)
