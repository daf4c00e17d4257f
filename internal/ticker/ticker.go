package ticker

import "strings"

// Market identifies the exchange a raw symbol is quoted on.
type Market string

const (
	MarketUS Market = "US"
	MarketTW Market = "TW"
	MarketJP Market = "JP"
	MarketUK Market = "UK"
)

// suffixes maps each non-US market to its Yahoo exchange suffix.
var suffixes = map[Market]string{
	MarketTW: ".TW",
	MarketJP: ".T",
	MarketUK: ".L",
}

// aliases accepts the market labels used by the original form.
var aliases = map[string]Market{
	"美國": MarketUS,
	"台灣": MarketTW,
	"日本": MarketJP,
	"英國": MarketUK,
}

// ParseMarket maps user input to a Market.
//
// Behavior:
//   - Empty input defaults to MarketUS.
//   - Codes are matched case-insensitively (us, Tw, ...).
//   - Form labels (美國, 台灣, 日本, 英國) are accepted.
//   - Anything else is returned upper-cased as-is; Known reports false for it
//     and Normalize appends no suffix.
func ParseMarket(s string) Market {
	s = strings.TrimSpace(s)
	if s == "" {
		return MarketUS
	}
	if m, ok := aliases[s]; ok {
		return m
	}
	return Market(strings.ToUpper(s))
}

// Known reports whether m is one of the four supported markets.
func (m Market) Known() bool {
	if m == MarketUS {
		return true
	}
	_, ok := suffixes[m]
	return ok
}

// Normalize trims and upper-cases rawSymbol and appends the exchange suffix
// for market. US symbols and unknown markets get no suffix.
func Normalize(rawSymbol string, market Market) string {
	symbol := strings.ToUpper(strings.TrimSpace(rawSymbol))
	return symbol + suffixes[market]
}
