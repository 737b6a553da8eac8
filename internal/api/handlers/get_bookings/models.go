package get_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/service/bookings/models"
)

// parseListRequest разбирает query-параметры списка бронирований
// Поддерживаются: customerId, serviceId, status, startDate, endDate (YYYY-MM-DD),
// limit, offset
func parseListRequest(tenantID int64, query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{TenantID: tenantID}

	if v := query.Get("customerId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid customerId: %s", v)
		}
		req.CustomerID = &id
	}

	if v := query.Get("serviceId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid serviceId: %s", v)
		}
		req.ServiceID = &id
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	if v := query.Get("startDate"); v != "" {
		t, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %s", v)
		}
		req.StartDate = &t
	}

	if v := query.Get("endDate"); v != "" {
		t, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %s", v)
		}
		// Верхняя граница включает весь день
		end := t.AddDate(0, 0, 1)
		req.EndDate = &end
	}

	if v := query.Get("limit"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: %s", v)
		}
		req.Limit = limit
	}

	if v := query.Get("offset"); v != "" {
		offset, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid offset: %s", v)
		}
		req.Offset = offset
	}

	return req, nil
}
