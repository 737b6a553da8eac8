package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}

	if req.IsHomeVisit {
		hasAddress := req.HomeVisitAddress != nil && strings.TrimSpace(*req.HomeVisitAddress) != ""
		if !hasAddress && req.HomeVisitLocation == nil {
			return fmt.Errorf("%w: home visit requires an address or coordinates", ErrInvalidInput)
		}
		if req.HomeVisitAddress != nil && len(*req.HomeVisitAddress) > domain.MaxAddressLength {
			return fmt.Errorf("%w: homeVisitAddress too long", ErrInvalidInput)
		}
	} else {
		if req.HomeVisitAddress != nil || req.HomeVisitLocation != nil {
			return fmt.Errorf("%w: home visit details are only allowed for home visits", ErrInvalidInput)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes too long", ErrInvalidInput)
	}

	return nil
}

// validateDuration проверяет длительность услуги из каталога
func validateDuration(durationMinutes int) error {
	if durationMinutes < domain.MinDurationMinutes || durationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: service duration %d minutes is out of range [%d, %d]",
			ErrInvalidInput, durationMinutes, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}
	return nil
}
