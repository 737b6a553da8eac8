package travelservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с TravelService (зоны обслуживания и надбавки за выезд)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента TravelService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetSurcharge получает надбавку за выезд по адресу или координатам
func (c *Client) GetSurcharge(ctx context.Context, req *SurchargeRequest) (*Surcharge, error) {
	url := fmt.Sprintf("%s/internal/surcharge", c.baseURL)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusUnprocessableEntity:
		return nil, ErrOutOfServiceArea
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var surcharge Surcharge
	if err := json.NewDecoder(resp.Body).Decode(&surcharge); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &surcharge, nil
}

// GetSurchargeWithGracefulDegradation получает надбавку за выезд с graceful degradation
// При недоступности TravelService возвращает ErrServiceDegraded, что позволяет
// калькулятору цены продолжить с нулевой надбавкой (availability over precision)
func (c *Client) GetSurchargeWithGracefulDegradation(ctx context.Context, req *SurchargeRequest) (*Surcharge, error) {
	surcharge, err := c.GetSurcharge(ctx, req)
	if err != nil {
		// Адрес вне зоны обслуживания - бизнес-ошибка, пробрасываем её дальше
		if err == ErrOutOfServiceArea {
			c.log.Info("Address out of service area for tenant=%d", req.TenantID)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("TravelService unavailable, applying graceful degradation for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: tenant=%d, error=%v", ErrServiceDegraded, req.TenantID, err)
	}

	c.log.Info("Successfully fetched surcharge for tenant=%d, amount=%s", req.TenantID, surcharge.Amount)
	return surcharge, nil
}
