// README: Pricing quote tests.
package pricing

import (
	"testing"
	"time"

	"fleetrent/internal/types"
)

func usd(cents int64) types.Money {
	return types.Money{Amount: cents, Currency: "USD"}
}

func TestEstimate(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	hourly := usd(1500)

	tests := []struct {
		name      string
		req       QuoteRequest
		wantBase  int64
		wantTax   int64
		wantTotal int64
	}{
		{
			// $100/day, 3 whole days: base $300, tax $54, total $354.
			name: "daily three days",
			req: QuoteRequest{
				Rate:        Rate{Daily: usd(10000)},
				Start:       start,
				End:         start.AddDate(0, 0, 3),
				BookingType: "daily",
			},
			wantBase:  30000,
			wantTax:   5400,
			wantTotal: 35400,
		},
		{
			// A started day bills as a full day.
			name: "daily partial day rounds up",
			req: QuoteRequest{
				Rate:        Rate{Daily: usd(10000)},
				Start:       start,
				End:         start.Add(25 * time.Hour),
				BookingType: "daily",
			},
			wantBase:  20000,
			wantTax:   3600,
			wantTotal: 23600,
		},
		{
			name: "hourly with hourly rate",
			req: QuoteRequest{
				Rate:        Rate{Daily: usd(10000), Hourly: &hourly},
				Start:       start,
				End:         start.Add(150 * time.Minute), // 2.5h -> 3 billed hours
				BookingType: "hourly",
			},
			wantBase:  4500,
			wantTax:   810,
			wantTotal: 5310,
		},
		{
			// No hourly rate defined: hourly bookings fall back to the daily formula.
			name: "hourly without hourly rate falls back to daily",
			req: QuoteRequest{
				Rate:        Rate{Daily: usd(10000)},
				Start:       start,
				End:         start.Add(3 * time.Hour),
				BookingType: "hourly",
			},
			wantBase:  10000,
			wantTax:   1800,
			wantTotal: 11800,
		},
		{
			name: "weekly billed on the daily rate",
			req: QuoteRequest{
				Rate:        Rate{Daily: usd(5000)},
				Start:       start,
				End:         start.AddDate(0, 0, 7),
				BookingType: "weekly",
			},
			wantBase:  35000,
			wantTax:   6300,
			wantTotal: 41300,
		},
	}

	svc := NewService()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := svc.Estimate(tc.req)
			if err != nil {
				t.Fatalf("estimate: %v", err)
			}
			if q.Base.Amount != tc.wantBase {
				t.Errorf("base = %d, want %d", q.Base.Amount, tc.wantBase)
			}
			if q.Tax.Amount != tc.wantTax {
				t.Errorf("tax = %d, want %d", q.Tax.Amount, tc.wantTax)
			}
			if q.Total.Amount != tc.wantTotal {
				t.Errorf("total = %d, want %d", q.Total.Amount, tc.wantTotal)
			}
			if q.Total.Currency != "USD" {
				t.Errorf("currency = %q, want USD", q.Total.Currency)
			}
		})
	}
}

func TestEstimate_BadInterval(t *testing.T) {
	svc := NewService()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, end := range []time.Time{start, start.Add(-time.Hour)} {
		_, err := svc.Estimate(QuoteRequest{
			Rate:        Rate{Daily: usd(10000)},
			Start:       start,
			End:         end,
			BookingType: "daily",
		})
		if err != ErrBadInterval {
			t.Errorf("end=%v: err = %v, want ErrBadInterval", end, err)
		}
	}
}
