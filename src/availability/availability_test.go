package availability

import (
	"testing"
	"time"

	"atrips/src/models"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func int64ptr(v int64) *int64 { return &v }

func TestParseDurationDays(t *testing.T) {
	cases := []struct {
		descriptor string
		want       int
	}{
		{"3D2N", 3},
		{"2 hari 1 malam", 2},
		{"4 days 3 nights", 4},
		{"1 day", 1},
		{"Trip 2024: 3 days", 3},
		{"overnight", 1},
		{"", 1},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, ParseDurationDays(c.descriptor), "descriptor %q", c.descriptor)
	}
}

func TestResolveWithoutSchedules(t *testing.T) {
	mp := "City office"
	product := &models.Product{
		Price:        500_000,
		Duration:     "3D2N",
		MeetingPoint: &mp,
	}
	now := date(2026, time.September, 1)

	res := ResolveAt(product, Request{Date: date(2026, time.September, 10), PartySize: 4}, now)
	assert.True(t, res.Bookable)
	assert.Equal(t, UnlimitedQuota, res.RemainingQuota)
	assert.Equal(t, int64(500_000), res.UnitPrice)
	if assert.Len(t, res.MeetingPoints, 1) {
		assert.Equal(t, "City office", res.MeetingPoints[0].Name)
		assert.Equal(t, -1, res.MeetingPoints[0].ScheduleIndex)
	}
	assert.Equal(t, date(2026, time.September, 10), res.StartDate)
	assert.Equal(t, date(2026, time.September, 12), res.EndDate)

	past := ResolveAt(product, Request{Date: date(2026, time.August, 20), PartySize: 1}, now)
	assert.False(t, past.Bookable)
}

func TestResolveSameDaySchedulesAreMerged(t *testing.T) {
	product := &models.Product{
		Price:    400_000,
		Duration: "1 day",
		Schedules: []models.Schedule{
			{
				Date:  date(2026, time.September, 10),
				Quota: 10, Booked: 7, Price: 450_000,
				MeetingPoints: []models.MeetingPoint{
					{Name: "North gate"},
					{Name: "South gate", Price: int64ptr(475_000)},
				},
			},
			{
				Date:  date(2026, time.September, 10),
				Quota: 5, Booked: 1, Price: 430_000,
				MeetingPoints: []models.MeetingPoint{
					{Name: "North gate"},
				},
			},
			{Date: date(2026, time.September, 11), Quota: 8, Booked: 0, Price: 500_000},
		},
	}
	now := date(2026, time.September, 1)

	res := ResolveAt(product, Request{Date: date(2026, time.September, 10), PartySize: 2}, now)
	assert.True(t, res.Bookable)
	assert.Equal(t, 7, res.RemainingQuota)
	assert.Equal(t, int64(430_000), res.UnitPrice)
	// North gate appears twice with different schedule prices, so both
	// (name, price) pairs survive; the duplicate pair does not.
	assert.Len(t, res.MeetingPoints, 3)

	tooMany := ResolveAt(product, Request{Date: date(2026, time.September, 10), PartySize: 8}, now)
	assert.False(t, tooMany.Bookable)
	assert.Equal(t, 7, tooMany.RemainingQuota)
}

func TestResolveRequiresSingleScheduleCapacity(t *testing.T) {
	product := &models.Product{
		Price: 400_000,
		Schedules: []models.Schedule{
			{Date: date(2026, time.September, 10), Quota: 1, Booked: 0, Price: 450_000},
			{Date: date(2026, time.September, 10), Quota: 1, Booked: 0, Price: 450_000},
		},
	}
	now := date(2026, time.September, 1)

	// Two seats remain in total, but split across schedules a party of
	// two can never reserve them; the date must not look bookable.
	split := ResolveAt(product, Request{Date: date(2026, time.September, 10), PartySize: 2}, now)
	assert.False(t, split.Bookable)
	assert.Equal(t, 2, split.RemainingQuota)

	single := ResolveAt(product, Request{Date: date(2026, time.September, 10), PartySize: 1}, now)
	assert.True(t, single.Bookable)
}

func TestResolveSkipsMalformedSchedules(t *testing.T) {
	product := &models.Product{
		Price: 400_000,
		Schedules: []models.Schedule{
			{Date: date(2026, time.September, 10), Quota: -3, Booked: 0, Price: 450_000},
			{Date: date(2026, time.September, 10), Quota: 4, Booked: 0, Price: 460_000},
		},
	}
	now := date(2026, time.September, 1)

	res := ResolveAt(product, Request{Date: date(2026, time.September, 10), PartySize: 2}, now)
	assert.True(t, res.Bookable)
	assert.Equal(t, 4, res.RemainingQuota)
	assert.Equal(t, int64(460_000), res.UnitPrice)
}

func TestResolveUnscheduledDate(t *testing.T) {
	product := &models.Product{
		Price: 400_000,
		Schedules: []models.Schedule{
			{Date: date(2026, time.September, 10), Quota: 4, Price: 460_000},
		},
	}
	now := date(2026, time.September, 1)

	res := ResolveAt(product, Request{Date: date(2026, time.September, 11), PartySize: 1}, now)
	assert.False(t, res.Bookable)
	assert.Equal(t, 0, res.RemainingQuota)
}

func TestUnitPriceFor(t *testing.T) {
	res := Resolution{
		UnitPrice: 450_000,
		MeetingPoints: []MeetingPointOption{
			{Name: "North gate", Price: 450_000},
			{Name: "South gate", Price: 475_000},
		},
	}
	south := "South gate"
	unknown := "East gate"

	assert.Equal(t, int64(475_000), UnitPriceFor(res, &south))
	assert.Equal(t, int64(450_000), UnitPriceFor(res, &unknown))
	assert.Equal(t, int64(450_000), UnitPriceFor(res, nil))

	bare := Resolution{UnitPrice: 300_000}
	assert.Equal(t, int64(300_000), UnitPriceFor(bare, nil))
}

func TestNightlyRatesFallBackToProductPrice(t *testing.T) {
	product := &models.Product{
		Category: "stay",
		Price:    900_000,
		Schedules: []models.Schedule{
			{Date: date(2026, time.September, 10), Quota: 3, Price: 1_000_000},
			{Date: date(2026, time.September, 12), Quota: 3, Price: 1_100_000},
		},
	}
	now := date(2026, time.September, 1)

	res := ResolveAt(product, Request{
		Date:           date(2026, time.September, 10),
		PartySize:      1,
		DurationNights: 3,
	}, now)
	assert.True(t, res.Bookable)
	assert.Equal(t, []int64{1_000_000, 900_000, 1_100_000}, res.NightlyRates)
}
