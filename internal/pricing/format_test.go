package pricing

import "testing"

func i64(v int64) *int64    { return &v }
func iptr(v int) *int       { return &v }
func sptr(v string) *string { return &v }

func TestFormatPrice_AbsentInputs(t *testing.T) {
	if got := FormatPrice(nil, sptr("USD"), 2); got != "-" {
		t.Errorf("nil amount: expected %q, got %q", "-", got)
	}
	if got := FormatPrice(i64(9999), nil, 2); got != "-" {
		t.Errorf("nil currency: expected %q, got %q", "-", got)
	}
	if got := FormatPrice(nil, nil, 2); got != "-" {
		t.Errorf("both nil: expected %q, got %q", "-", got)
	}
}

func TestFormatPrice_Scenarios(t *testing.T) {
	cases := []struct {
		name     string
		minor    int64
		currency string
		exponent int
		want     string
	}{
		{"usd cents", 9999, "USD", 2, "$99.99"},
		{"jpy no exponent", 1500, "JPY", 0, "¥1,500"},
		{"kwd three decimals", 29990, "KWD", 3, "KWD 29.990"},
		{"eur grouping", 123456789, "EUR", 2, "€1,234,567.89"},
		{"gbp sub unit", 50, "GBP", 2, "£0.50"},
		{"zero", 0, "USD", 2, "$0.00"},
		{"unlisted symbol", 1999, "SEK", 2, "SEK 19.99"},
	}

	for _, tc := range cases {
		got := FormatPrice(i64(tc.minor), sptr(tc.currency), tc.exponent)
		if got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestFormatPrice_NegativeAmount(t *testing.T) {
	// Sign precedes the symbol for symbol currencies
	if got := FormatPrice(i64(-50), sptr("USD"), 2); got != "-$0.50" {
		t.Errorf("expected %q, got %q", "-$0.50", got)
	}
	if got := FormatPrice(i64(-29990), sptr("KWD"), 3); got != "KWD -29.990" {
		t.Errorf("expected %q, got %q", "KWD -29.990", got)
	}
}

func TestFormatPrice_LargeJPYGrouping(t *testing.T) {
	if got := FormatPrice(i64(1000000), sptr("JPY"), 0); got != "¥1,000,000" {
		t.Errorf("expected %q, got %q", "¥1,000,000", got)
	}
}
