package pricing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	"github.com/m04kA/HSP-SchedulingService/internal/integrations/travelservice"
)

// Quote результат расчета стоимости бронирования
type Quote struct {
	BasePrice          decimal.Decimal
	HomeVisitSurcharge decimal.Decimal
	LocationSurcharge  decimal.Decimal
	Total              decimal.Decimal
	// Degraded true, если надбавка за локацию не получена из-за
	// недоступности TravelService и принята равной нулю
	Degraded bool
}

// Calculator рассчитывает итоговую стоимость бронирования
type Calculator struct {
	travelClient TravelServiceClient
	logger       Logger
}

// NewCalculator создает новый экземпляр калькулятора стоимости
func NewCalculator(travelClient TravelServiceClient, logger Logger) *Calculator {
	return &Calculator{
		travelClient: travelClient,
		logger:       logger,
	}
}

// Calculate рассчитывает стоимость: базовая цена услуги, надбавка за выезд
// из карточки услуги и надбавка за локацию от TravelService.
// При недоступности TravelService надбавка за локацию принимается равной нулю,
// бронирование не блокируется (availability over precision).
// Для одной и той же услуги и входа результат детерминирован
func (c *Calculator) Calculate(
	ctx context.Context,
	service *directoryservice.Service,
	isHomeVisit bool,
	address *string,
	location *domain.GeoPoint,
) (*Quote, error) {
	quote := &Quote{
		BasePrice:          service.BasePrice,
		HomeVisitSurcharge: decimal.Zero,
		LocationSurcharge:  decimal.Zero,
	}

	if !isHomeVisit {
		quote.Total = quote.BasePrice
		return quote, nil
	}

	if service.HomeVisitSurcharge != nil {
		quote.HomeVisitSurcharge = *service.HomeVisitSurcharge
	}

	req := &travelservice.SurchargeRequest{
		TenantID: service.TenantID,
		Address:  address,
	}
	if location != nil {
		req.Latitude = &location.Latitude
		req.Longitude = &location.Longitude
	}

	surcharge, err := c.travelClient.GetSurchargeWithGracefulDegradation(ctx, req)
	switch {
	case err == nil:
		quote.LocationSurcharge = surcharge.Amount
	case errors.Is(err, travelservice.ErrOutOfServiceArea):
		return nil, ErrOutOfServiceArea
	case errors.Is(err, travelservice.ErrServiceDegraded):
		// Недоступность TravelService не блокирует бронирование
		c.logger.Warn("Calculate: travel surcharge degraded for tenant=%d service=%d, using zero",
			service.TenantID, service.ID)
		quote.Degraded = true
	default:
		return nil, err
	}

	quote.Total = quote.BasePrice.Add(quote.HomeVisitSurcharge).Add(quote.LocationSurcharge)
	return quote, nil
}
