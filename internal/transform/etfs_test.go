package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketdash/internal/provider"
)

func TestFormatMagnitude(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want string
	}{
		{2_500_000_000, "2.50B"},
		{1_000_000_000, "1.00B"},
		{3_400_000, "3.40M"},
		{999_999, "999999"},
		{999, "999"},
		{12.5, "12.5"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := FormatMagnitude(tc.in); got != tc.want {
			t.Fatalf("FormatMagnitude(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestETFs(t *testing.T) {
	t.Parallel()

	// Arrange
	exp1 := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	exp2 := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	quotes := []provider.Quote{
		{
			Symbol: "SPY",
			Info: provider.Info{
				"longName":               "SPDR S&P 500 ETF Trust",
				"previousClose":          512.3,
				"fiftyTwoWeekHigh":       524.61,
				"fiftyTwoWeekLow":        409.21,
				"ytdReturn":              0.1234,
				"threeYearAverageReturn": 0.0856,
				"fiveYearAverageReturn":  0.1402,
				"totalAssets":            2.5e9,
				"yield":                  0.0131,
				"averageVolume":          75_000_000.0,
			},
			Options: []provider.OptionExpiry{
				{Expiration: exp1, Puts: 10, Calls: 12},
				{Expiration: exp2, Puts: 3, Calls: 4},
			},
		},
		{Symbol: "BARE", Info: provider.Info{}},
		{Symbol: "SPY", Info: provider.Info{"longName": "dup"}},
		{Symbol: "NOINFO"},
	}

	// Act
	rows := ETFs(quotes)

	// Assert
	require.Len(t, rows, 2)
	spy := rows[0]
	assert.Equal(t, "SPDR S&P 500 ETF Trust", spy.Name)
	assert.Equal(t, "$512.3", spy.LatestPrice)
	assert.Equal(t, "$524.61", spy.High52W)
	assert.Equal(t, "$409.21", spy.Low52W)
	assert.Equal(t, "12.34%", spy.Return1Y)
	assert.Equal(t, "8.56%", spy.Return3Y)
	assert.Equal(t, "14.02%", spy.Return5Y)
	assert.Equal(t, "2.50B", spy.TotalAssets)
	assert.Equal(t, "1.31%", spy.DividendYield)
	require.NotNil(t, spy.AverageVolume)
	assert.Equal(t, 75_000_000.0, *spy.AverageVolume)
	assert.Equal(t, "Exp: 2024-05-17, Puts: 10, Calls: 12; Exp: 2024-06-21, Puts: 3, Calls: 4", spy.Options)

	bare := rows[1]
	assert.Equal(t, ETFRow{
		Symbol: "BARE", Name: NA, LatestPrice: NA, High52W: NA, Low52W: NA,
		Return1Y: NA, Return3Y: NA, Return5Y: NA, TotalAssets: NA, DividendYield: NA,
	}, bare)
}
