// journal/journal.go
package journal

import "time"

// TradeRecord is one executed trade as persisted by a journal.
type TradeRecord struct {
	TradeID  string
	Time     time.Time
	Symbol   string
	Side     string
	Quantity float64
	Price    float64
	Notional float64
}

// EquitySnapshot is one mark-to-market observation.
type EquitySnapshot struct {
	Time           time.Time
	Cash           float64
	PositionsValue float64
	Equity         float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
