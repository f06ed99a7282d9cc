package order

import "strings"

var currencySymbols = map[string]string{
	"TZS": "TSh",
	"KES": "KSh",
	"UGX": "USh",
	"RWF": "FRw",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// CurrencySymbol returns the display symbol for an ISO 4217 code, or the code
// itself when no symbol is known.
func CurrencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code
}
