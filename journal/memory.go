package journal

// Memory keeps records in slices. Useful when a run wants journaled output
// without touching disk.
type Memory struct {
	Trades []TradeRecord
	Equity []EquitySnapshot
}

func NewMemory() *Memory { return &Memory{} }

func (j *Memory) RecordTrade(t TradeRecord) error {
	j.Trades = append(j.Trades, t)
	return nil
}

func (j *Memory) RecordEquity(e EquitySnapshot) error {
	j.Equity = append(j.Equity, e)
	return nil
}

func (j *Memory) Close() error { return nil }
