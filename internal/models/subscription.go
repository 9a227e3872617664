// Package models содержит доменные структуры автомоечного сервиса:
// абонемент на мойку, история выполненных моек, дополнительные услуги,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Subscription представляет абонемент на ежедневную мойку автомобиля.
// Срок действия — 30 календарных дней с даты начала, по одной мойке в день.
type Subscription struct {
	ID                string         `json:"id"`                 // Уникальный идентификатор абонемента
	Username          string         `json:"username"`           // Имя пользователя, которому принадлежит абонемент
	CarPlate          string         `json:"car_plate"`          // Госномер автомобиля
	StartDate         time.Time      `json:"start_date"`         // Дата начала действия
	EndDate           time.Time      `json:"end_date"`           // Дата окончания, start_date + 30 дней
	ServicesCompleted int            `json:"services_completed"` // Количество выполненных моек
	ServicesTotal     int            `json:"services_total"`     // Общее количество моек, фиксировано 30
	Status            string         `json:"status"`             // Статус жизненного цикла: active, ongoing, completed
	History           []HistoryEntry `json:"history,omitempty"`  // Разреженная история выполненных моек
	Addons            []Addon        `json:"addons,omitempty"`   // Купленные дополнительные услуги
	Worker            *Worker        `json:"worker,omitempty"`   // Назначенный мойщик, nil — не назначен
}

// HistoryEntry — запись о фактически выполненной мойке.
// На одну календарную дату допускается не более одной записи.
type HistoryEntry struct {
	Date time.Time `json:"date"` // Календарная дата выполнения
}

// Addon — разовая дополнительная услуга, купленная к абонементу.
// ServiceDate привязывает услугу к конкретному дню; nil означает,
// что услуга применяется к дню покупки.
type Addon struct {
	Name        string     `json:"name"`                   // Название услуги
	Price       float64    `json:"price"`                  // Стоимость
	ServiceDate *time.Time `json:"service_date,omitempty"` // Целевая дата оказания (опционально)
	DateAdded   time.Time  `json:"date_added"`             // Дата покупки
}

// Worker — мойщик, закреплённый за абонементом.
type Worker struct {
	ID    string `json:"id"`    // Уникальный идентификатор
	Name  string `json:"name"`  // Имя
	Phone string `json:"phone"` // Контактный телефон
}

// DummySubscription используется для приёма данных из JSON-запроса
// на создание абонемента. Даты приходят строками и парсятся вручную.
type DummySubscription struct {
	CarPlate  string `json:"car_plate" validate:"required"`                      // Госномер автомобиля
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"` // Дата начала в формате 2006-01-02
}

// DummyAddon используется для приёма данных из JSON-запроса на покупку
// дополнительной услуги.
type DummyAddon struct {
	Name        string  `json:"name" validate:"required"`       // Название услуги
	Price       float64 `json:"price" validate:"required,gt=0"` // Стоимость (>0)
	// Целевая дата оказания в формате 2006-01-02, пустая строка — день покупки
	ServiceDate string `json:"service_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// DummyAssignWorker используется для приёма данных из JSON-запроса
// на назначение мойщика.
type DummyAssignWorker struct {
	WorkerID    string `json:"worker_id" validate:"required,uuid"` // Идентификатор мойщика
	WorkerName  string `json:"worker_name" validate:"required"`    // Имя мойщика
	WorkerPhone string `json:"worker_phone" validate:"required"`   // Телефон мойщика
}
