package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillDays(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	period := Period{From: from, To: from.AddDate(0, 0, 3)}
	require.Equal(t, 3, period.Days())

	days := FillDays(period, []DailySales{
		{Date: from.AddDate(0, 0, 1), OrderCount: 2, ItemsSold: 5, Total: decimal.NewFromInt(40)},
	})

	require.Len(t, days, 3)
	assert.Equal(t, from, days[0].Date)
	assert.Zero(t, days[0].OrderCount)
	assert.True(t, days[0].Total.IsZero())
	assert.Equal(t, int64(2), days[1].OrderCount)
	assert.True(t, decimal.NewFromInt(40).Equal(days[1].Total))
	assert.Equal(t, from.AddDate(0, 0, 2), days[2].Date)
}
