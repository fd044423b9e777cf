package portfolio

import (
	"fmt"
	"strings"
	"time"
)

// Side is the direction of a trade.
type Side int8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return fmt.Sprintf("Side(%d)", int8(s))
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// Position is an open holding. AvgPrice is the cost-basis average,
// recomputed on same-direction trades and left unchanged by reducing
// trades.
type Position struct {
	Symbol   string
	Quantity float64
	AvgPrice float64
}

// TradeRecord is an immutable log entry appended on every successfully
// executed trade. ID is a ULID, so records sort by creation time.
type TradeRecord struct {
	ID       string
	Time     time.Time
	Symbol   string
	Side     Side
	Quantity float64
	Price    float64
	Notional float64
}

// EquitySnapshot is one point on the equity curve:
// Equity = Cash + PositionsValue.
type EquitySnapshot struct {
	Time           time.Time
	Cash           float64
	PositionsValue float64
	Equity         float64
}
