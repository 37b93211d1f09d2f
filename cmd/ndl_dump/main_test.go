package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketdash/internal/provider/nasdaqdl"
)

func TestDate(t *testing.T) {
	t.Parallel()

	d, err := date("2022-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC), d)

	d, err = date("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = date("04/03/2022")
	assert.Error(t, err)
}

func TestRenderAndDump(t *testing.T) {
	t.Parallel()

	// Arrange
	frame := nasdaqdl.Frame{
		Columns: []nasdaqdl.Column{{Name: "ticker", Type: "String"}, {Name: "date", Type: "Date"}, {Name: "close", Type: "BigDecimal(34,12)"}},
		Rows:    [][]any{{"AAPL", "2022-01-03", 182.01}, {"MSFT", "2022-01-03", 334.75}},
	}
	path := filepath.Join(t.TempDir(), "out.json")

	// Act
	out := render(frame, frame.Rows[:1])
	err := dump(path, frame)

	// Assert
	assert.Contains(t, out, "ticker")
	assert.Contains(t, out, "AAPL")
	assert.NotContains(t, out, "MSFT")
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		Columns []nasdaqdl.Column `json:"columns"`
		Data    [][]any           `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Len(t, got.Columns, 3)
	assert.Len(t, got.Data, 2)
}
