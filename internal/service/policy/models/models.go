package models

import (
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
)

// Request модели

// UpsertPolicyRequest запрос на создание или обновление политики планирования
// Все параметры опциональны - пропущенные поля берутся из значений по умолчанию
type UpsertPolicyRequest struct {
	TenantID                int64  `json:"-"`
	ServiceID               *int64 `json:"serviceId,omitempty"` // NULL = для всех услуг тенанта
	SlotStepMinutes         *int   `json:"slotStepMinutes,omitempty"`
	TravelBufferMinutes     *int   `json:"travelBufferMinutes,omitempty"`
	MinBookingNoticeMinutes *int   `json:"minBookingNoticeMinutes,omitempty"`
	AdvanceBookingDays      *int   `json:"advanceBookingDays,omitempty"`
}

// Response модели

// PolicyResponse ответ с данными политики планирования
type PolicyResponse struct {
	ID                      int64     `json:"id"`
	TenantID                int64     `json:"tenantId"`
	ServiceID               *int64    `json:"serviceId,omitempty"`
	SlotStepMinutes         int       `json:"slotStepMinutes"`
	TravelBufferMinutes     int       `json:"travelBufferMinutes"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// TenantPolicyResponse действующая политика тенанта и список переопределений
type TenantPolicyResponse struct {
	// Effective действующие значения уровня тенанта с учетом платформенных
	// значений по умолчанию
	Effective ResolvedPolicy   `json:"effective"`
	Overrides []PolicyResponse `json:"overrides"`
}

// ResolvedPolicy действующие значения политики после применения иерархии
// услуга > тенант > платформенные значения по умолчанию
type ResolvedPolicy struct {
	SlotStepMinutes         int `json:"slotStepMinutes"`
	TravelBufferMinutes     int `json:"travelBufferMinutes"`
	MinBookingNoticeMinutes int `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int `json:"advanceBookingDays"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.SchedulingPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	return &PolicyResponse{
		ID:                      p.ID,
		TenantID:                p.TenantID,
		ServiceID:               p.ServiceID,
		SlotStepMinutes:         p.SlotStepMinutes,
		TravelBufferMinutes:     p.TravelBufferMinutes,
		MinBookingNoticeMinutes: p.MinBookingNoticeMinutes,
		AdvanceBookingDays:      p.AdvanceBookingDays,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}

// FromDomainPolicyList конвертирует список domain моделей в DTO
func FromDomainPolicyList(policies []*domain.SchedulingPolicy) []PolicyResponse {
	resp := make([]PolicyResponse, 0, len(policies))
	for _, p := range policies {
		if converted := FromDomainPolicy(p); converted != nil {
			resp = append(resp, *converted)
		}
	}
	return resp
}

// ToDomainPolicy конвертирует UpsertPolicyRequest в domain модель
// Пропущенные поля заполняются переданными значениями по умолчанию
func (r *UpsertPolicyRequest) ToDomainPolicy(defaults ResolvedPolicy) *domain.SchedulingPolicy {
	p := &domain.SchedulingPolicy{
		TenantID:                r.TenantID,
		ServiceID:               r.ServiceID,
		SlotStepMinutes:         defaults.SlotStepMinutes,
		TravelBufferMinutes:     defaults.TravelBufferMinutes,
		MinBookingNoticeMinutes: defaults.MinBookingNoticeMinutes,
		AdvanceBookingDays:      defaults.AdvanceBookingDays,
	}

	if r.SlotStepMinutes != nil {
		p.SlotStepMinutes = *r.SlotStepMinutes
	}
	if r.TravelBufferMinutes != nil {
		p.TravelBufferMinutes = *r.TravelBufferMinutes
	}
	if r.MinBookingNoticeMinutes != nil {
		p.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.AdvanceBookingDays != nil {
		p.AdvanceBookingDays = *r.AdvanceBookingDays
	}

	return p
}
