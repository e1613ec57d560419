package portal

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Units FormatBudget can express an amount in.
const (
	UnitWon               = "원"
	UnitThousandWon       = "천원"
	UnitMillionWon        = "백만원"
	UnitHundredMillionWon = "억원"
)

var budgetPrinter = message.NewPrinter(language.Korean)

// FormatBudget renders an amount of won in the specified unit with thousands
// separators. Thousands are shown without decimals; millions and hundreds of
// millions with at most one. An unrecognized unit is treated as UnitWon.
func FormatBudget(amount float64, unit string) string {
	value := amount
	fractionDigits := 0
	switch unit {
	case UnitThousandWon:
		value = amount / 1e3
	case UnitMillionWon:
		value = amount / 1e6
		fractionDigits = 1
	case UnitHundredMillionWon:
		value = amount / 1e8
		fractionDigits = 1
	}
	return budgetPrinter.Sprint(
		number.Decimal(value, number.MaxFractionDigits(fractionDigits)),
	)
}
