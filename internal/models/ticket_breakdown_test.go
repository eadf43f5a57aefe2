package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketBreakdown_TotalPrice(t *testing.T) {
	b := TicketBreakdown{"20": 50, "32.5": 2, "40": 0}
	total, err := b.TotalPrice()
	require.NoError(t, err)
	assert.Equal(t, 1065.0, total)
}

func TestTicketBreakdown_TotalPriceEmpty(t *testing.T) {
	var b TicketBreakdown
	total, err := b.TotalPrice()
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestTicketBreakdown_TotalPriceRejectsNonNumericPrice(t *testing.T) {
	b := TicketBreakdown{"twenty": 5}
	_, err := b.TotalPrice()
	require.Error(t, err)
}

func TestTicketBreakdown_ScanHandlesNullAndEmpty(t *testing.T) {
	var b TicketBreakdown
	require.NoError(t, b.Scan(nil))
	assert.Empty(t, b)

	require.NoError(t, b.Scan([]byte(`{"20":3}`)))
	assert.Equal(t, 3, b["20"])
}
