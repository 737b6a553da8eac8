package pricing

import (
	"context"

	"github.com/m04kA/HSP-SchedulingService/internal/integrations/travelservice"
)

// TravelServiceClient интерфейс клиента для TravelService
type TravelServiceClient interface {
	GetSurchargeWithGracefulDegradation(ctx context.Context, req *travelservice.SurchargeRequest) (*travelservice.Surcharge, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
