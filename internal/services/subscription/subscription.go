// Package services содержит бизнес-логику работы с абонементами на мойку:
// создание, чтение с построением журнала обслуживания, списочные сводки,
// покупку дополнительных услуг, назначение мойщика и отметку выполненной
// мойки. Журнал обслуживания нигде не хранится и пересчитывается движком
// при каждом чтении.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/clock"
	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/daylog"
	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/gate"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/carwash-aggregator/internal/metrics"
	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
	"github.com/magabrotheeeer/carwash-aggregator/internal/storage"
)

// SubscriptionRepository определяет методы для работы с абонементами в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новый абонемент и возвращает его ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	// ReadSubscription возвращает абонемент с историей, услугами и мойщиком.
	ReadSubscription(ctx context.Context, id string) (*models.Subscription, error)
	// ListSubscriptions возвращает абонементы пользователя с пагинацией.
	ListSubscriptions(ctx context.Context, username string, limit, offset int) ([]*models.Subscription, error)
	// ListAllSubscriptions возвращает все абонементы с пагинацией.
	ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
	// AssignWorker закрепляет мойщика за абонементом.
	AssignWorker(ctx context.Context, subscriptionID string, worker models.Worker) error
	// MarkServiceDone записывает выполненную мойку и увеличивает счётчик.
	MarkServiceDone(ctx context.Context, subscriptionID string, day time.Time) error
	// CreateAddon сохраняет купленную дополнительную услугу.
	CreateAddon(ctx context.Context, subscriptionID string, addon models.Addon) (int, error)
}

// Cache описывает методы для кэширования снимков абонементов.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует события сервиса для потребителей уведомлений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// DetailView — абонемент вместе с пересчитанным журналом обслуживания.
type DetailView struct {
	Subscription *models.Subscription `json:"subscription"`
	Ledger       []daylog.Entry       `json:"ledger"`
	NextService  *daylog.Entry        `json:"next_service,omitempty"`
}

// Summary — сводка абонемента для списочных экранов. Дата следующей мойки
// здесь считается быстрым путём, без построения журнала.
type Summary struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	CarPlate           string    `json:"car_plate"`
	Status             string    `json:"status"`
	ServicesCompleted  int       `json:"services_completed"`
	ServicesTotal      int       `json:"services_total"`
	NextServiceDate    time.Time `json:"next_service_date"`
	IsTodayServiceDone bool      `json:"is_today_service_done"`
}

// ServiceCompletedEvent — событие "мойка выполнена" для обменника событий.
type ServiceCompletedEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	Username       string    `json:"username"`
	ServiceDate    time.Time `json:"service_date"`
	ServicesLeft   int       `json:"services_left"`
}

// WorkerAssignedEvent — событие "мойщик назначен".
type WorkerAssignedEvent struct {
	SubscriptionID string `json:"subscription_id"`
	WorkerID       string `json:"worker_id"`
	WorkerName     string `json:"worker_name"`
}

// SubscriptionService реализует бизнес-логику абонементов, включая кеширование
// снимков и публикацию событий после успешных мутаций.
type SubscriptionService struct {
	repo          SubscriptionRepository
	cache         Cache
	events        EventPublisher
	clk           clock.Clock
	log           *slog.Logger
	servicesTotal int
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// servicesTotal — количество моек в абонементе из конфигурации.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, events EventPublisher,
	clk clock.Clock, log *slog.Logger, servicesTotal int) *SubscriptionService {
	if servicesTotal <= 0 {
		servicesTotal = daylog.DefaultServicesTotal
	}
	return &SubscriptionService{
		repo:          repo,
		cache:         cache,
		events:        events,
		clk:           clk,
		log:           log,
		servicesTotal: servicesTotal,
	}
}

func cacheKey(id string) string {
	return fmt.Sprintf("subscription:%s", id)
}

// Create создаёт новый абонемент для пользователя и возвращает его ID.
func (s *SubscriptionService) Create(ctx context.Context, username string, req models.DummySubscription) (string, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return "", fmt.Errorf("invalid start date: %w", err)
	}
	endDate := startDate.AddDate(0, 0, s.servicesTotal)
	today := s.clk.Now().Truncate(24 * time.Hour)
	if endDate.Before(today) {
		return "", fmt.Errorf("subscription end date must not be earlier than today")
	}

	sub := models.Subscription{
		ID:            uuid.NewString(),
		Username:      username,
		CarPlate:      req.CarPlate,
		StartDate:     startDate,
		EndDate:       endDate,
		ServicesTotal: s.servicesTotal,
		Status:        "active",
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return "", err
	}

	s.log.Info("created new subscription", slog.String("id", id))

	if err := s.cache.Set(cacheKey(id), sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey(id)), sl.Err(err))
	}

	return id, nil
}

// Read возвращает абонемент с пересчитанным журналом обслуживания.
// Снимок берётся из кеша или хранилища; журнал всегда строится заново.
func (s *SubscriptionService) Read(ctx context.Context, id string) (*DetailView, error) {
	var sub *models.Subscription
	found, err := s.cache.Get(cacheKey(id), &sub)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if !found || sub == nil {
		sub, err = s.repo.ReadSubscription(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey(id), sub, time.Hour); err != nil {
			s.log.Warn("failed to cache subscription", slog.String("key", cacheKey(id)), sl.Err(err))
		}
	}

	if err := daylog.ValidateCounters(*sub); err != nil {
		return nil, err
	}

	now := s.clk.Now()
	ledger, err := daylog.Build(*sub, now)
	if err != nil {
		return nil, err
	}
	ledger = daylog.AttachAddons(ledger, sub.Addons)
	next := daylog.MarkNext(ledger)

	return &DetailView{
		Subscription: sub,
		Ledger:       ledger,
		NextService:  next,
	}, nil
}

// List возвращает сводки абонементов в зависимости от роли пользователя.
func (s *SubscriptionService) List(ctx context.Context, username, role string, limit, offset int) ([]Summary, error) {
	var err error
	var subs []*models.Subscription
	if role == "admin" {
		subs, err = s.repo.ListAllSubscriptions(ctx, limit, offset)
	} else {
		subs, err = s.repo.ListSubscriptions(ctx, username, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	result := make([]Summary, 0, len(subs))
	for _, sub := range subs {
		result = append(result, Summary{
			ID:                 sub.ID,
			Username:           sub.Username,
			CarPlate:           sub.CarPlate,
			Status:             sub.Status,
			ServicesCompleted:  sub.ServicesCompleted,
			ServicesTotal:      sub.ServicesTotal,
			NextServiceDate:    daylog.QuickNextDate(*sub),
			IsTodayServiceDone: daylog.IsTodayServiceDone(*sub, now),
		})
	}
	return result, nil
}

// AddAddon сохраняет купленную дополнительную услугу и возвращает её ID.
// К какому дню журнала услуга прикрепится, решает движок при чтении.
func (s *SubscriptionService) AddAddon(ctx context.Context, id string, req models.DummyAddon) (int, error) {
	addon := models.Addon{
		Name:      req.Name,
		Price:     req.Price,
		DateAdded: s.clk.Now(),
	}
	if req.ServiceDate != "" {
		serviceDate, err := time.Parse("2006-01-02", req.ServiceDate)
		if err != nil {
			return 0, fmt.Errorf("invalid service date: %w", err)
		}
		addon.ServiceDate = &serviceDate
	}

	addonID, err := s.repo.CreateAddon(ctx, id, addon)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	s.log.Info("addon purchased", slog.String("subscription_id", id), slog.Int("addon_id", addonID))
	return addonID, nil
}

// AssignWorker выполняет переход назначения мойщика. Снимок читается из
// хранилища напрямую: решения шлюза на кешированных данных не принимаются.
func (s *SubscriptionService) AssignWorker(ctx context.Context, id string, req models.DummyAssignWorker) error {
	sub, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return err
	}

	worker := models.Worker{
		ID:    req.WorkerID,
		Name:  req.WorkerName,
		Phone: req.WorkerPhone,
	}
	if _, err := gate.AssignWorker(*sub, worker); err != nil {
		return err
	}

	if err := s.repo.AssignWorker(ctx, id, worker); err != nil {
		return err
	}
	metrics.WorkersAssigned.Inc()

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}

	event := WorkerAssignedEvent{
		SubscriptionID: id,
		WorkerID:       worker.ID,
		WorkerName:     worker.Name,
	}
	if err := s.events.Publish(rabbitmq.RoutingKeyWorkerAssigned, event); err != nil {
		s.log.Warn("failed to publish worker assigned event", sl.Err(err))
	}

	s.log.Info("worker assigned", slog.String("subscription_id", id), slog.String("worker_id", worker.ID))
	return nil
}

// MarkDailyDone отмечает сегодняшнюю мойку выполненной. Клиент после
// успешной мутации перечитывает абонемент, локально журнал не правится.
func (s *SubscriptionService) MarkDailyDone(ctx context.Context, id string) error {
	// Только свежий снимок: решение о легальности перехода на данных
	// из кеша привело бы к двойной отметке при устаревшем счётчике.
	sub, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return err
	}

	now := s.clk.Now()
	updated, err := gate.MarkDailyDone(*sub, now)
	if err != nil {
		return err
	}

	if err := s.repo.MarkServiceDone(ctx, id, now); err != nil {
		// Гонка двух клиентов со свежими снимками решается уникальным
		// индексом в базе, а не шлюзом.
		if errors.Is(err, storage.ErrDuplicateServiceDate) {
			return gate.ErrAlreadyMarkedToday
		}
		return err
	}
	metrics.ServicesMarkedDone.Inc()

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}

	event := ServiceCompletedEvent{
		SubscriptionID: id,
		Username:       sub.Username,
		ServiceDate:    now,
		ServicesLeft:   updated.ServicesTotal - updated.ServicesCompleted,
	}
	if err := s.events.Publish(rabbitmq.RoutingKeyServiceCompleted, event); err != nil {
		s.log.Warn("failed to publish service completed event", sl.Err(err))
	}

	s.log.Info("daily service marked done", slog.String("subscription_id", id))
	return nil
}
