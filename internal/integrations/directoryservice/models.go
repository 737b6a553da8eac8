package directoryservice

import "github.com/shopspring/decimal"

// DaySchedule расписание работы тенанта на один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // "09:00"
	CloseTime *string `json:"close_time,omitempty"` // "17:00"
}

// WeekSchedule недельное расписание работы тенанта
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// Tenant модель бизнес-аккаунта из DirectoryService
type Tenant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// BusinessHours nil, если тенант не настроил расписание
	BusinessHours *WeekSchedule `json:"business_hours,omitempty"`
}

// Service модель услуги из DirectoryService
type Service struct {
	ID                 int64            `json:"id"`
	TenantID           int64            `json:"tenant_id"`
	Name               string           `json:"name"`
	DurationMinutes    int              `json:"duration_minutes"`
	BasePrice          decimal.Decimal  `json:"base_price"`
	IsActive           bool             `json:"is_active"`
	HomeVisitAvailable bool             `json:"home_visit_available"`
	HomeVisitSurcharge *decimal.Decimal `json:"home_visit_surcharge,omitempty"`
}

// Customer модель клиента тенанта из DirectoryService
type Customer struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// ErrorResponse модель ошибки от DirectoryService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
