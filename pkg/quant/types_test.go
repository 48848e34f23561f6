package quant

import (
	"encoding/json"
	"testing"
)

func TestToPriceMicros(t *testing.T) {
	cases := []struct {
		in   float64
		want PriceMicros
	}{
		{0, 0},
		{1.23, 1230000},
		{104.9, 104900000},
		{1000, 1000000000},
	}
	for _, c := range cases {
		if got := ToPriceMicros(c.in); got != c.want {
			t.Errorf("ToPriceMicros(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParsePriceMicros(t *testing.T) {
	cases := []struct {
		in   string
		want PriceMicros
	}{
		{"0", 0},
		{"104.9", 104900000},
		{"105", 105000000},
		{"0.1", 100000},
		{"1010.0", 1010000000},
	}
	for _, c := range cases {
		got, err := ParsePriceMicros(json.Number(c.in))
		if err != nil {
			t.Fatalf("ParsePriceMicros(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParsePriceMicros(%q) = %d, want %d", c.in, got, c.want)
		}
	}

	if _, err := ParsePriceMicros(json.Number("not-a-number")); err == nil {
		t.Error("expected error for malformed number")
	}

	// Empty token (absent field) parses to zero without error.
	got, err := ParsePriceMicros(json.Number(""))
	if err != nil || got != 0 {
		t.Errorf("ParsePriceMicros(\"\") = %d, %v; want 0, nil", got, err)
	}
}

func TestPriceMicrosNum(t *testing.T) {
	cases := []struct {
		in   PriceMicros
		want string
	}{
		{104900000, "104.9"},
		{105000000, "105"},
		{100000, "0.1"},
		{0, "0"},
	}
	for _, c := range cases {
		if got := c.in.Num(); string(got) != c.want {
			t.Errorf("(%d).Num() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRoundDownToLot(t *testing.T) {
	cases := []struct {
		qty, lot, want int64
	}{
		{250, 100, 200},
		{200, 100, 200},
		{99, 100, 0},
		{0, 100, 0},
		{-5, 100, 0},
		{250, 0, 250}, // non-positive lot is a no-op
	}
	for _, c := range cases {
		if got := RoundDownToLot(c.qty, c.lot); got != c.want {
			t.Errorf("RoundDownToLot(%d,%d) = %d, want %d", c.qty, c.lot, got, c.want)
		}
	}
}

func FuzzRoundDownToLot(f *testing.F) {
	f.Add(int64(250), int64(100))
	f.Add(int64(0), int64(100))
	f.Add(int64(99999), int64(100))
	f.Fuzz(func(t *testing.T, qty, lot int64) {
		got := RoundDownToLot(qty, lot)
		if lot <= 0 {
			if got != qty {
				t.Fatalf("RoundDownToLot(%d,%d) = %d, want passthrough", qty, lot, got)
			}
			return
		}
		if qty >= 0 && got > qty {
			t.Fatalf("RoundDownToLot(%d,%d) = %d exceeds input", qty, lot, got)
		}
		if got%lot != 0 {
			t.Fatalf("RoundDownToLot(%d,%d) = %d not a lot multiple", qty, lot, got)
		}
		if got < 0 {
			t.Fatalf("RoundDownToLot(%d,%d) = %d negative", qty, lot, got)
		}
	})
}
