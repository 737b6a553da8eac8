package domain

// ConflictReason человекочитаемая причина конфликта
type ConflictReason string

const (
	// ConflictReasonTimeOverlap интервалы бронирований пересекаются
	ConflictReasonTimeOverlap ConflictReason = "time conflict"

	// ConflictReasonTravelBuffer интервалы не пересекаются, но зазор между
	// ними меньше буфера на дорогу (одно из бронирований - выездное)
	ConflictReasonTravelBuffer ConflictReason = "insufficient travel time"
)

// BookingConflict результат проверки конфликтов для предлагаемого интервала
type BookingConflict struct {
	HasConflict bool
	Bookings    []*Booking
	Reason      ConflictReason
}

// ConflictingIDs returns the ids of all conflicting bookings
func (c *BookingConflict) ConflictingIDs() []int64 {
	ids := make([]int64, 0, len(c.Bookings))
	for _, b := range c.Bookings {
		ids = append(ids, b.ID)
	}
	return ids
}
