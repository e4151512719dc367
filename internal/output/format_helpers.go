package output

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatPrice formats a price with 4 decimals.
func FormatPrice(amount decimal.Decimal) string { return amount.StringFixed(4) }

// FormatCurrency formats an amount with 2 decimals followed by its currency code.
func FormatCurrency(amount decimal.Decimal, ccy string) string {
	if ccy == "" {
		return amount.StringFixed(2)
	}
	return amount.StringFixed(2) + " " + ccy
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// RelativeError returns stdErr as a percentage of price, or zero for a zero price.
func RelativeError(price, stdErr decimal.Decimal) decimal.Decimal {
	if price.IsZero() {
		return decimal.Zero
	}
	return stdErr.Div(price.Abs()).Mul(decimal.NewFromInt(100))
}

func intToString(i int) string { return strconv.Itoa(i) }
