package present

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	// Arrange
	g := testGrid()
	v := View{
		Page:    "Cryptos",
		Title:   "Top cryptos",
		State:   StateSuccess,
		Notices: Notices{{Level: LevelSuccess, Text: "Data loaded successfully!"}},
		Grid:    &g,
	}

	// Act
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, v))

	// Assert
	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "success", got["state"])
	assert.NotContains(t, got, "charts")
	grid := got["grid"].(map[string]any)
	assert.Equal(t, []any{"Symbol", "Price"}, grid["columns"])
	assert.Len(t, grid["rows"], 4)
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	// Arrange
	g := testGrid()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	v := View{
		Title:   "Commodity Dashboard",
		State:   StateSuccess,
		Notices: Notices{{Level: LevelSuccess, Text: "Data loaded successfully!"}},
		Grid:    &g,
		Charts: []Chart{
			PriceChart("Gold", []Point{{Time: day, Value: 2000}, {Time: day.AddDate(0, 0, 1), Value: 2010.5}}),
			PriceChart("Silver", nil),
		},
	}

	// Act
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, v))

	// Assert
	out := buf.String()
	assert.Contains(t, out, "Commodity Dashboard")
	assert.Contains(t, out, "Data loaded successfully!")
	assert.Contains(t, out, "Symbol")
	assert.Contains(t, out, "BBB")
	assert.Contains(t, out, "20.00")
	assert.Contains(t, out, "Price Movement for Gold  2024-03-01 2000.00 .. 2024-03-02 2010.50")
	assert.Contains(t, out, "Price Movement for Silver: no data")
}

func TestWriteText_NoGrid(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, View{Title: "ETF Analysis", State: StateError, Notices: Notices{{Level: LevelError, Text: "missing"}}}))

	assert.Contains(t, buf.String(), "missing")
	assert.NotContains(t, buf.String(), "┌")
}
