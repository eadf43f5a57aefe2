package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TicketBreakdown maps a ticket price (as decimal string, e.g. "20" or "32.5")
// to a ticket count. Stored as JSONB; business logic only ever sees the map.
type TicketBreakdown map[string]int

func (b TicketBreakdown) Value() (driver.Value, error) {
	if b == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (b *TicketBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = TicketBreakdown{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TicketBreakdown", value)
	}

	if len(raw) == 0 {
		*b = TicketBreakdown{}
		return nil
	}
	return json.Unmarshal(raw, b)
}

// TotalPrice returns the sum of price*count over all entries, rounded to 2 decimals.
func (b TicketBreakdown) TotalPrice() (float64, error) {
	total := decimal.Zero
	for priceStr, count := range b {
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return 0, fmt.Errorf("invalid ticket price %q: %w", priceStr, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(count))))
	}
	f, _ := total.Round(2).Float64()
	return f, nil
}
