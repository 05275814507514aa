package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NumberFormat is the numeric convention of a deployment
type NumberFormat string

const (
	// FormatPlain uses ',' for thousands and '.' for decimals: 1,234.56
	FormatPlain NumberFormat = "plain"
	// FormatLocalized uses '.' for thousands and ',' for decimals: 1.234,56
	FormatLocalized NumberFormat = "localized"
)

// ParseNumberFormat validates a configured number format
func ParseNumberFormat(s string) (NumberFormat, error) {
	switch NumberFormat(s) {
	case FormatPlain, FormatLocalized:
		return NumberFormat(s), nil
	}
	return "", fmt.Errorf("unknown number format %q", s)
}

// Convention parses and renders numbers for one deployment. A convention is
// chosen once and applied to every row; it is never guessed per cell.
type Convention struct {
	Format         NumberFormat
	CurrencySymbol string
}

// DefaultConvention returns the plain convention with the R$ marker
func DefaultConvention() Convention {
	return Convention{Format: FormatPlain, CurrencySymbol: "R$"}
}

func (c Convention) separators() (thousands, decimal string) {
	if c.Format == FormatLocalized {
		return ".", ","
	}
	return ",", "."
}

func (c Convention) printer() *message.Printer {
	if c.Format == FormatLocalized {
		return message.NewPrinter(language.BrazilianPortuguese)
	}
	return message.NewPrinter(language.English)
}

// ParseNumber strips the currency marker and all whitespace from s and
// parses the remainder under the convention.
func (c Convention) ParseNumber(s string) (float64, bool) {
	if c.CurrencySymbol != "" {
		s = strings.ReplaceAll(s, c.CurrencySymbol, "")
	}
	return c.parseBare(s)
}

// parseBare parses s without removing a currency marker. Used for column
// type inference where a marker means the column is text.
func (c Convention) parseBare(s string) (float64, bool) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, false
	}

	thousands, dec := c.separators()
	s = strings.ReplaceAll(s, thousands, "")
	if dec != "." {
		s = strings.ReplaceAll(s, dec, ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// CleanVolume converts a volume cell to a number. Numbers pass through,
// null stays null and text is parsed; ok is false only when a non-empty
// cell could not be parsed, in which case the result is null.
func (c Convention) CleanVolume(v Value) (out Value, ok bool) {
	switch v.Kind() {
	case KindNumber, KindNull:
		return v, true
	case KindText:
		s, _ := v.AsText()
		if f, parsed := c.ParseNumber(s); parsed {
			return Number(f), true
		}
		if strings.TrimSpace(s) == "" {
			return Null(), true
		}
		return Null(), false
	default:
		return Null(), false
	}
}

// FormatCurrency renders f as "R$ 1,234.56" (plain) or "R$ 1.234,56"
// (localized)
func (c Convention) FormatCurrency(f float64) string {
	amount := c.printer().Sprintf("%.2f", f)
	if c.CurrencySymbol == "" {
		return amount
	}
	return c.CurrencySymbol + " " + amount
}

// FormatInteger renders f rounded to a whole number with thousands separators
func (c Convention) FormatInteger(f float64) string {
	return c.printer().Sprintf("%.0f", f)
}

// FormatDecimal renders f with a fixed number of decimals and no grouping
func (c Convention) FormatDecimal(f float64, places int) string {
	s := strconv.FormatFloat(f, 'f', places, 64)
	if _, dec := c.separators(); dec != "." {
		s = strings.Replace(s, ".", dec, 1)
	}
	return s
}
