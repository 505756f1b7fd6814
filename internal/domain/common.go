package domain

import "strings"

// TradeSide represents the side of a ledger trade (BUY or SELL).
type TradeSide string

const (
	Buy  TradeSide = "BUY"
	Sell TradeSide = "SELL"
)

// ParseTradeSide normalizes a raw side string ("buy", "Sell", ...) into a
// TradeSide. The boolean reports whether the input was recognized.
func ParseTradeSide(s string) (TradeSide, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "B":
		return Buy, true
	case "SELL", "S":
		return Sell, true
	default:
		return "", false
	}
}

// NormalizeSymbol canonicalizes a ticker symbol: trimmed, upper-cased.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// IsCryptoSymbol reports whether a ticker looks like a crypto pair
// (e.g. "BTCUSDT", "ETHUSD") rather than an equity symbol.
func IsCryptoSymbol(symbol string) bool {
	s := NormalizeSymbol(symbol)
	if strings.HasSuffix(s, "USDT") && len(s) > 4 {
		return true
	}
	return strings.HasSuffix(s, "USD") && len(s) > 3
}
