// README: Pricing service computes booking quotes from vehicle rates.
package pricing

import (
	"errors"
	"time"
)

var ErrBadInterval = errors.New("end must be after start")

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Estimate computes the pricing snapshot for a rental interval.
// Hourly bookings against a vehicle with an hourly rate are billed per
// started hour; everything else is billed per started day against the
// daily rate. Tax is a flat TaxRatePercent of the base.
func (s *Service) Estimate(req QuoteRequest) (Quote, error) {
	if !req.End.After(req.Start) {
		return Quote{}, ErrBadInterval
	}

	var base = req.Rate.Daily.Mul(DurationDays(req.Start, req.End))
	if req.BookingType == "hourly" && req.Rate.Hourly != nil {
		base = req.Rate.Hourly.Mul(durationHours(req.Start, req.End))
	}

	tax := base.Mul(TaxRatePercent)
	tax.Amount /= 100

	q := Quote{
		Base:     base,
		Tax:      tax,
		Discount: base.Mul(0),
	}
	q.Total = base.Add(tax).Sub(q.Discount)
	return q, nil
}

// DurationDays returns the number of whole days the interval spans,
// counting any started day as a full one.
func DurationDays(start, end time.Time) int64 {
	d := end.Sub(start)
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

func durationHours(start, end time.Time) int64 {
	d := end.Sub(start)
	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hours
}
