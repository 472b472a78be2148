package pricing

import (
	"strings"

	"pricewatch/internal/domain"
)

// Placeholder is rendered when a price or its currency is absent.
const Placeholder = "-"

// currencySymbols maps ISO 4217 codes to the symbols rendered without a
// separating space. Codes not listed here fall back to "CODE amount".
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatPrice renders integer minor units as a display string:
// (9999, USD, 2) -> "$99.99", (1500, JPY, 0) -> "¥1,500",
// (29990, KWD, 3) -> "KWD 29.990". Returns Placeholder when either the
// amount or the currency is absent. Never fails; formatting has no error
// path.
func FormatPrice(minorUnits *int64, currency *string, exponent int) string {
	if minorUnits == nil || currency == nil {
		return Placeholder
	}
	if exponent < 0 {
		exponent = 0
	}

	amount := formatMinorUnits(*minorUnits, exponent)
	if symbol, ok := currencySymbols[*currency]; ok {
		if strings.HasPrefix(amount, "-") {
			return "-" + symbol + amount[1:]
		}
		return symbol + amount
	}
	return *currency + " " + amount
}

// FormatDisplayPrice formats the resolved display price of a check.
func FormatDisplayPrice(p domain.DisplayPrice) string {
	return FormatPrice(p.PriceMinorUnits, p.Currency, p.CurrencyExponent)
}

// formatMinorUnits scales minor units by 10^exponent and renders the
// decimal with thousands grouping. Integer math throughout; exponent is
// the number of fraction digits shown.
func formatMinorUnits(minorUnits int64, exponent int) string {
	negative := minorUnits < 0
	abs := minorUnits
	if negative {
		abs = -abs
	}

	pow := int64(1)
	for i := 0; i < exponent; i++ {
		pow *= 10
	}

	intPart := abs / pow
	fracPart := abs % pow

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(groupThousands(intPart))

	if exponent > 0 {
		b.WriteByte('.')
		frac := make([]byte, exponent)
		for i := exponent - 1; i >= 0; i-- {
			frac[i] = byte('0' + fracPart%10)
			fracPart /= 10
		}
		b.Write(frac)
	}
	return b.String()
}

// groupThousands renders a non-negative integer with comma separators.
func groupThousands(n int64) string {
	if n < 1000 {
		return ucItoa(n)
	}
	return groupThousands(n/1000) + "," + padThree(n%1000)
}

func ucItoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func padThree(n int64) string {
	return string([]byte{
		byte('0' + n/100),
		byte('0' + (n/10)%10),
		byte('0' + n%10),
	})
}
