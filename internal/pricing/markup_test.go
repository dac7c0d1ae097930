package pricing

import "testing"

func TestDisplayPrice(t *testing.T) {
	cases := []struct {
		original float64
		want     float64
	}{
		{200.00, 230.00},
		{100.00, 115.00},
		{99.99, 114.99},
		{0.01, 0.01},
		{333.33, 383.33},
	}
	for _, tc := range cases {
		got := DisplayPrice(tc.original)
		if got != tc.want {
			t.Errorf("DisplayPrice(%.2f) = %.2f, want %.2f", tc.original, got, tc.want)
		}
	}
}

func TestDisplayPriceRoundsToTwoDecimals(t *testing.T) {
	// 123.455 * 1.15 = 141.97325
	got := DisplayPrice(123.455)
	if got != 141.97 {
		t.Errorf("DisplayPrice(123.455) = %v, want 141.97", got)
	}
}

func TestFormatAmountUnknownCurrency(t *testing.T) {
	got := FormatAmount(230, "zzz")
	if got != "230.00 ZZZ" {
		t.Errorf("FormatAmount fallback = %q, want %q", got, "230.00 ZZZ")
	}
}

func TestFormatAmountKnownCurrency(t *testing.T) {
	got := FormatAmount(230, "USD")
	if got == "" {
		t.Fatal("FormatAmount returned empty string for USD")
	}
}
