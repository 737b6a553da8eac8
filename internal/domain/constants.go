package domain

import "time"

// Default scheduling policy values
// Applied when a tenant has no policy rows; overridable via config
const (
	DefaultSlotStepMinutes         = 30
	DefaultTravelBufferMinutes     = 30
	DefaultMinBookingNoticeMinutes = 60
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
)

// Default business hours applied when a tenant has no weekly schedule
const (
	DefaultOpenTime  = "09:00"
	DefaultCloseTime = "17:00"
)

// ConflictScanWindow ширина окна поиска конфликтующих бронирований
// вокруг предлагаемого времени. Буферы и длительности всегда много меньше
// 24 часов, поэтому ограниченный скан не может пропустить реальный конфликт.
// TODO: сделать параметром детектора, если появятся многодневные услуги
const ConflictScanWindow = 24 * time.Hour

// Business validation constants
const (
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 480 // 8 hours
	MinTravelBufferMinutes      = 0
	MaxTravelBufferMinutes      = 240
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
	MaxAdvanceBookingDays       = 365
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxAddressLength            = 500
	MaxListLimit                = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, участвующих в проверке конфликтов
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// SlotBlockingStatuses статусы, блокирующие слот в календаре доступности
// Pending-бронирования не скрывают слот: "предварительно запрошено"
// не равно "подтвержденно занято"
var SlotBlockingStatuses = []BookingStatus{
	StatusConfirmed,
}
