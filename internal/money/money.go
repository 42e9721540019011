// Package money formats transaction amounts for display.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts with two fraction digits and the locale's
// grouping, e.g. 1,234.50 for en-US.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter builds a formatter for a BCP 47 locale tag. Unknown tags fall
// back to en-US.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.AmericanEnglish
	}
	return Formatter{printer: message.NewPrinter(tag)}
}

// Format works from the exact decimal. Only the whole part goes through the
// locale printer, as an integer, so large amounts keep every digit.
func (f Formatter) Format(amount decimal.Decimal) string {
	p := f.printer
	if p == nil {
		p = message.NewPrinter(language.AmericanEnglish)
	}
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(groupWhole(p, whole))
	b.WriteString(decimalSeparator(p))
	b.WriteString(frac)
	return b.String()
}

func groupWhole(p *message.Printer, whole string) string {
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return p.Sprint(number.Decimal(n))
	}
	sep := groupSeparator(p)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// decimalSeparator reads the locale's separator off a formatted 1.5.
func decimalSeparator(p *message.Printer) string {
	s := p.Sprint(number.Decimal(1.5, number.Scale(1)))
	if sep := strings.Trim(s, "15"); sep != "" {
		return sep
	}
	return "."
}

// groupSeparator reads the locale's grouping mark off a formatted 1000.
func groupSeparator(p *message.Printer) string {
	return strings.Trim(p.Sprint(number.Decimal(1000)), "10")
}

// Signed renders sign, currency code and amount as one cell, e.g. "+NPR 500.00".
func (f Formatter) Signed(sign, code string, amount decimal.Decimal) string {
	return sign + code + " " + f.Format(amount)
}
