package quant

import (
	"encoding/json"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// PriceMicros represents price multiplied by 1,000,000 (10^6).
// E.g., 104.9 = 104,900,000 PriceMicros.
type PriceMicros int64

// TimeStamp represents Unix Microseconds.
type TimeStamp int64

// PriceScale is the fixed-point scale factor for PriceMicros.
const PriceScale = 1000000

// ToPriceMicros converts a float64 (from external API) to PriceMicros.
// Note: Only used at the boundary. Internal logic uses PriceMicros directly.
func ToPriceMicros(f float64) PriceMicros {
	return PriceMicros(math.Round(f * PriceScale))
}

// ParsePriceMicros converts a JSON number token to PriceMicros without
// an intermediate float64, so wire prices like 104.9 land exactly on
// the micros grid.
func ParsePriceMicros(n json.Number) (PriceMicros, error) {
	if n == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", n, err)
	}
	return PriceMicros(d.Shift(6).IntPart()), nil
}

// Num renders the price as a trimmed JSON number token ("104.9",
// not "104.900000"). Used when marshaling outbound order frames.
func (p PriceMicros) Num() json.Number {
	return json.Number(decimal.NewFromInt(int64(p)).Shift(-6).String())
}

func (p PriceMicros) String() string {
	return fmt.Sprintf("%.6f", float64(p)/PriceScale)
}

// Float returns the price in plain units. Boundary/reporting use only.
func (p PriceMicros) Float() float64 {
	return float64(p) / PriceScale
}

// RoundDownToLot truncates qty down to the nearest multiple of lot.
// A non-positive lot leaves qty unchanged.
func RoundDownToLot(qty, lot int64) int64 {
	if lot <= 0 {
		return qty
	}
	if qty < 0 {
		return 0
	}
	return qty - qty%lot
}

// NextSeq generates the next sequence number atomically.
func NextSeq(ptr *uint64) uint64 {
	return atomic.AddUint64(ptr, 1)
}
