// Package slots кеширует рассчитанные сетки слотов в Redis.
// Кеш ускоряет повторные запросы календаря и инвалидируется целиком
// на день тенанта при любом изменении бронирований этого дня
package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss ключ отсутствует в кеше
var ErrCacheMiss = errors.New("slots.cache: cache miss")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Cache кеш сеток слотов поверх Redis
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewCache создает новый экземпляр кеша слотов
func NewCache(client *redis.Client, ttl time.Duration, logger Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Key собирает ключ кеша для параметров запроса слотов
// Ключ начинается с префикса дня тенанта, чтобы InvalidateDay мог
// удалить все варианты запроса одним проходом
func Key(tenantID int64, date string, serviceID int64, isHomeVisit bool, durationMinutes int) string {
	return fmt.Sprintf("slots:%d:%s:%d:%t:%d", tenantID, date, serviceID, isHomeVisit, durationMinutes)
}

// Get возвращает закешированный ответ по ключу
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("slots.cache: get %s: %w", key, err)
	}
	return value, nil
}

// Set сохраняет ответ в кеш с TTL
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("slots.cache: set %s: %w", key, err)
	}
	return nil
}

// InvalidateDay удаляет все закешированные сетки тенанта на дату
func (c *Cache) InvalidateDay(ctx context.Context, tenantID int64, date string) error {
	pattern := fmt.Sprintf("slots:%d:%s:*", tenantID, date)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("slots.cache: scan %s: %w", pattern, err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("slots.cache: delete %d keys for %s: %w", len(keys), pattern, err)
	}

	c.logger.Info("Invalidated %d slot cache keys for tenant=%d date=%s", len(keys), tenantID, date)
	return nil
}

// NopCache заглушка кеша для окружений без Redis
type NopCache struct{}

// Get всегда возвращает промах
func (NopCache) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, ErrCacheMiss
}

// Set ничего не делает
func (NopCache) Set(_ context.Context, _ string, _ []byte) error {
	return nil
}

// InvalidateDay ничего не делает
func (NopCache) InvalidateDay(_ context.Context, _ int64, _ string) error {
	return nil
}
