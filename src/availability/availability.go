package availability

import (
	"math"
	"time"

	"atrips/src/models"
)

// UnlimitedQuota is the sentinel remaining-quota value for products that
// carry no Schedules (every future date is open).
const UnlimitedQuota = math.MaxInt32

// MeetingPointOption is a selectable pickup location for a date, tagged
// with the position of the Schedule it came from so a time slot or price
// can be resolved later.
type MeetingPointOption struct {
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	ScheduleIndex int    `json:"schedule_index"`
}

// Request describes one availability check.
type Request struct {
	Date           time.Time
	PartySize      int
	DurationNights int
}

// Resolution is the outcome of an availability check.
type Resolution struct {
	Bookable       bool                 `json:"bookable"`
	RemainingQuota int                  `json:"remaining_quota"`
	UnitPrice      int64                `json:"unit_price"`
	MeetingPoints  []MeetingPointOption `json:"meeting_points,omitempty"`
	// NightlyRates has one per-night price for stay products; a night
	// without a Schedule falls back to the product price.
	NightlyRates []int64 `json:"nightly_rates,omitempty"`
	// StartDate/EndDate is the displayed date range for multi-day trips.
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Resolve checks availability against the current calendar day.
func Resolve(product *models.Product, req Request) Resolution {
	return ResolveAt(product, req, time.Now())
}

// ResolveAt is Resolve with an explicit "today", compared at local-day
// granularity. Malformed Schedules (zero date, negative quota or price)
// are excluded from bookability rather than failing the calculation.
func ResolveAt(product *models.Product, req Request, now time.Time) Resolution {
	today := dateOnly(now)
	date := dateOnly(req.Date)
	partySize := req.PartySize
	if partySize < 1 {
		partySize = 1
	}

	days := ParseDurationDays(product.Duration)
	res := Resolution{
		StartDate: date,
		EndDate:   date.AddDate(0, 0, days-1),
	}

	if len(product.Schedules) == 0 {
		// No schedules: every date from today on is open at the fallback
		// price, with the legacy global meeting point as the sole option.
		if date.Before(today) {
			return res
		}
		res.Bookable = true
		res.RemainingQuota = UnlimitedQuota
		res.UnitPrice = product.Price
		if product.MeetingPoint != nil && *product.MeetingPoint != "" {
			res.MeetingPoints = []MeetingPointOption{{
				Name:          *product.MeetingPoint,
				Price:         product.Price,
				ScheduleIndex: -1,
			}}
		}
		res.NightlyRates = nightlyRates(product, date, req.DurationNights)
		return res
	}

	if date.Before(today) {
		return res
	}

	type key struct {
		name  string
		price int64
	}
	seen := map[key]bool{}
	remaining := 0
	bestRemaining := 0
	var unitPrice int64
	matched := false
	for i, s := range product.Schedules {
		if !wellFormed(&s) {
			continue
		}
		if !dateOnly(s.Date).Equal(date) {
			continue
		}
		price := s.Price
		if price == 0 {
			price = product.Price
		}
		if !matched || price < unitPrice {
			unitPrice = price
		}
		matched = true
		remaining += s.Remaining()
		if r := s.Remaining(); r > bestRemaining {
			bestRemaining = r
		}
		for _, mp := range s.MeetingPoints {
			mpPrice := price
			if mp.Price != nil && *mp.Price > 0 {
				mpPrice = *mp.Price
			}
			k := key{name: mp.Name, price: mpPrice}
			if seen[k] {
				continue
			}
			seen[k] = true
			res.MeetingPoints = append(res.MeetingPoints, MeetingPointOption{
				Name:          mp.Name,
				Price:         mpPrice,
				ScheduleIndex: i,
			})
		}
	}
	if !matched {
		return res
	}
	if remaining < 0 {
		remaining = 0
	}
	res.RemainingQuota = remaining
	res.UnitPrice = unitPrice
	// A booking reserves seats from exactly one schedule row, so the
	// whole party must fit into a single schedule even when the summed
	// remaining across the date would cover it.
	res.Bookable = bestRemaining >= partySize
	res.NightlyRates = nightlyRates(product, date, req.DurationNights)
	return res
}

// UnitPriceFor picks the per-unit base price for a selection: the chosen
// meeting point's price when one is named, else the minimum across the
// date's meeting points, else the resolved schedule/product price.
func UnitPriceFor(res Resolution, meetingPoint *string) int64 {
	if meetingPoint != nil && *meetingPoint != "" {
		for _, mp := range res.MeetingPoints {
			if mp.Name == *meetingPoint {
				return mp.Price
			}
		}
	}
	if len(res.MeetingPoints) > 0 {
		min := res.MeetingPoints[0].Price
		for _, mp := range res.MeetingPoints[1:] {
			if mp.Price < min {
				min = mp.Price
			}
		}
		return min
	}
	return res.UnitPrice
}

// nightlyRates walks consecutive nights from the check-in date. A night
// without a Schedule uses the product price; it never blocks booking.
func nightlyRates(product *models.Product, checkIn time.Time, nights int) []int64 {
	if nights < 1 {
		return nil
	}
	byDate := map[string]int64{}
	for _, s := range product.Schedules {
		if !wellFormed(&s) {
			continue
		}
		price := s.Price
		if price == 0 {
			price = product.Price
		}
		d := dateOnly(s.Date).Format("2006-01-02")
		if existing, ok := byDate[d]; !ok || price < existing {
			byDate[d] = price
		}
	}
	rates := make([]int64, 0, nights)
	for i := 0; i < nights; i++ {
		night := checkIn.AddDate(0, 0, i).Format("2006-01-02")
		if price, ok := byDate[night]; ok {
			rates = append(rates, price)
		} else {
			rates = append(rates, product.Price)
		}
	}
	return rates
}

func wellFormed(s *models.Schedule) bool {
	return !s.Date.IsZero() && s.Quota >= 0 && s.Booked >= 0 && s.Price >= 0
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
