package portfolio

import "github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"

// OtherSector is the fallback sector for symbols missing from the table.
const OtherSector = "Other"

// sectorBySymbol is a fixed symbol-to-sector table used only to group the
// allocation chart. No classification data source exists in this system;
// unlisted symbols fall into OtherSector.
var sectorBySymbol = map[string]string{
	// Technology
	"AAPL":  "Technology",
	"MSFT":  "Technology",
	"GOOG":  "Technology",
	"GOOGL": "Technology",
	"META":  "Technology",
	"NVDA":  "Technology",
	"AMD":   "Technology",
	"INTC":  "Technology",
	"CRM":   "Technology",
	"ORCL":  "Technology",
	"ADBE":  "Technology",
	"CSCO":  "Technology",
	"IBM":   "Technology",

	// Consumer
	"AMZN": "Consumer",
	"TSLA": "Consumer",
	"NKE":  "Consumer",
	"SBUX": "Consumer",
	"MCD":  "Consumer",
	"WMT":  "Consumer",
	"COST": "Consumer",
	"DIS":  "Consumer",
	"NFLX": "Consumer",

	// Financials
	"JPM":   "Financials",
	"BAC":   "Financials",
	"GS":    "Financials",
	"MS":    "Financials",
	"V":     "Financials",
	"MA":    "Financials",
	"AXP":   "Financials",
	"BRK.B": "Financials",

	// Healthcare
	"JNJ":  "Healthcare",
	"PFE":  "Healthcare",
	"UNH":  "Healthcare",
	"MRK":  "Healthcare",
	"ABBV": "Healthcare",
	"LLY":  "Healthcare",

	// Energy & Industrials
	"XOM": "Energy",
	"CVX": "Energy",
	"BA":  "Industrials",
	"CAT": "Industrials",
	"GE":  "Industrials",
	"UPS": "Industrials",
}

// SectorFor resolves a symbol to its sector. Crypto pairs group under
// "Crypto"; anything else unlisted falls into OtherSector.
func SectorFor(symbol string) string {
	if sector, ok := sectorBySymbol[symbol]; ok {
		return sector
	}
	if domain.IsCryptoSymbol(symbol) {
		return "Crypto"
	}
	return OtherSector
}
