package domain

import "time"

// SchedulingPolicy параметры планирования для тенанта
// Поддерживает иерархию:
// 1. Политика для конкретной услуги тенанта (tenant_id, service_id)
// 2. Политика тенанта (tenant_id, NULL)
// 3. Платформенные значения по умолчанию из конфигурации
type SchedulingPolicy struct {
	ID        int64
	TenantID  int64
	ServiceID *int64 // NULL = policy for all tenant services

	SlotStepMinutes         int
	TravelBufferMinutes     int
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int // 0 = unlimited

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTenantWide returns true if the policy applies to all services of the tenant
func (p *SchedulingPolicy) IsTenantWide() bool {
	return p.ServiceID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (p *SchedulingPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}
