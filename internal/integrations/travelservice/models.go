package travelservice

import "github.com/shopspring/decimal"

// SurchargeRequest запрос на расчет надбавки за выезд к клиенту
// Указывается адрес и/или координаты
type SurchargeRequest struct {
	TenantID  int64    `json:"tenant_id"`
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Surcharge ответ TravelService с надбавкой за выезд
type Surcharge struct {
	// Amount надбавка за выезд по зоне обслуживания
	Amount decimal.Decimal `json:"amount"`
	// EstimatedTravelMinutes оценка времени в пути (информационно)
	EstimatedTravelMinutes int `json:"estimated_travel_minutes"`
}

// ErrorResponse модель ошибки от TravelService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
