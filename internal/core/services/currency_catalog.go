package services

import "github.com/nestegg-app/nestegg_backend/internal/core/domain"

// staticCurrencyEntry is one compiled-in catalog row.
type staticCurrencyEntry struct {
	name      string
	symbol    string
	precision int
}

// staticCurrencies is the immutable system currency catalog, loaded once at
// process start and never mutated. The seed migration mirrors this list.
var staticCurrencies = map[string]staticCurrencyEntry{
	"USD": {"US Dollar", "$", 2},
	"EUR": {"Euro", "€", 2},
	"GBP": {"British Pound", "£", 2},
	"JPY": {"Japanese Yen", "¥", 0},
	"CHF": {"Swiss Franc", "CHF", 2},
	"CAD": {"Canadian Dollar", "$", 2},
	"AUD": {"Australian Dollar", "$", 2},
	"NZD": {"New Zealand Dollar", "$", 2},
	"CNY": {"Chinese Yuan", "¥", 2},
	"HKD": {"Hong Kong Dollar", "$", 2},
	"SGD": {"Singapore Dollar", "$", 2},
	"SEK": {"Swedish Krona", "kr", 2},
	"NOK": {"Norwegian Krone", "kr", 2},
	"DKK": {"Danish Krone", "kr", 2},
	"ISK": {"Icelandic Krona", "kr", 0},
	"PLN": {"Polish Zloty", "zł", 2},
	"CZK": {"Czech Koruna", "Kč", 2},
	"HUF": {"Hungarian Forint", "Ft", 2},
	"RON": {"Romanian Leu", "lei", 2},
	"BGN": {"Bulgarian Lev", "лв", 2},
	"TRY": {"Turkish Lira", "₺", 2},
	"RUB": {"Russian Ruble", "₽", 2},
	"UAH": {"Ukrainian Hryvnia", "₴", 2},
	"INR": {"Indian Rupee", "₹", 2},
	"PKR": {"Pakistani Rupee", "₨", 2},
	"LKR": {"Sri Lankan Rupee", "₨", 2},
	"BDT": {"Bangladeshi Taka", "৳", 2},
	"IDR": {"Indonesian Rupiah", "Rp", 2},
	"MYR": {"Malaysian Ringgit", "RM", 2},
	"THB": {"Thai Baht", "฿", 2},
	"VND": {"Vietnamese Dong", "₫", 0},
	"PHP": {"Philippine Peso", "₱", 2},
	"KRW": {"South Korean Won", "₩", 0},
	"TWD": {"New Taiwan Dollar", "$", 2},
	"ILS": {"Israeli New Shekel", "₪", 2},
	"AED": {"UAE Dirham", "د.إ", 2},
	"SAR": {"Saudi Riyal", "﷼", 2},
	"QAR": {"Qatari Riyal", "﷼", 2},
	"KWD": {"Kuwaiti Dinar", "د.ك", 3},
	"BHD": {"Bahraini Dinar", ".د.ب", 3},
	"EGP": {"Egyptian Pound", "£", 2},
	"ZAR": {"South African Rand", "R", 2},
	"NGN": {"Nigerian Naira", "₦", 2},
	"KES": {"Kenyan Shilling", "KSh", 2},
	"MAD": {"Moroccan Dirham", "د.م.", 2},
	"BRL": {"Brazilian Real", "R$", 2},
	"ARS": {"Argentine Peso", "$", 2},
	"CLP": {"Chilean Peso", "$", 0},
	"COP": {"Colombian Peso", "$", 2},
	"PEN": {"Peruvian Sol", "S/", 2},
	"MXN": {"Mexican Peso", "$", 2},
	"UZS": {"Uzbekistani Som", "сўм", 2},
	"KZT": {"Kazakhstani Tenge", "₸", 2},
}

// staticCatalog builds the domain view of the compiled-in catalog.
func staticCatalog() map[string]domain.Currency {
	catalog := make(map[string]domain.Currency, len(staticCurrencies))
	for code, entry := range staticCurrencies {
		catalog[code] = domain.Currency{
			CurrencyCode: code,
			Name:         entry.name,
			Symbol:       entry.symbol,
			Precision:    entry.precision,
			IsActive:     true,
		}
	}
	return catalog
}
