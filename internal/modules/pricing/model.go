// README: Pricing rate definitions and quote breakdown.
package pricing

import (
	"time"

	"fleetrent/internal/types"
)

// TaxRatePercent is the flat tax applied to every booking.
const TaxRatePercent = 18

type Rate struct {
	Daily  types.Money
	Hourly *types.Money // optional; nil means the vehicle has no hourly rate
}

type QuoteRequest struct {
	Rate        Rate
	Start       time.Time
	End         time.Time
	BookingType string // "hourly", "daily", "weekly", "monthly"
}

// Quote is the immutable pricing snapshot stored on a booking.
type Quote struct {
	Base     types.Money
	Tax      types.Money
	Discount types.Money
	Total    types.Money
}
