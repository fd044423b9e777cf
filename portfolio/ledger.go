package portfolio

import (
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/quantsim/internal/id"
	"github.com/rustyeddy/quantsim/journal"
)

// positionEpsilon absorbs floating rounding when a sell takes a position
// to zero: anything at or below it is treated as flat and removed.
const positionEpsilon = 1e-8

// Ledger owns the cash balance, the symbol->Position map, the trade log
// and the equity history for a single run. Nothing else mutates these.
//
// A Ledger is not safe for concurrent use; drive it from one goroutine
// per run.
type Ledger struct {
	initial    float64
	cash       float64
	positions  map[string]*Position
	trades     []TradeRecord
	history    []EquitySnapshot
	allowShort bool
	journal    journal.Journal
}

type Option func(*Ledger)

// WithAllowShort permits negative net positions. The default (false)
// rejects any sell that would drive quantity below zero.
func WithAllowShort(allow bool) Option {
	return func(l *Ledger) { l.allowShort = allow }
}

// WithJournal writes every trade record and equity snapshot through to j
// in addition to the in-memory log. Journal errors never fail a trade.
func WithJournal(j journal.Journal) Option {
	return func(l *Ledger) { l.journal = j }
}

func New(initialCash float64, opts ...Option) *Ledger {
	l := &Ledger{
		initial:   initialCash,
		cash:      initialCash,
		positions: make(map[string]*Position),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ExecuteTrade applies one buy or sell. It reports false and leaves the
// ledger untouched when a buy exceeds available cash, or a sell exceeds
// held quantity while shorting is disabled. Rejections are expected
// behavior, not errors: callers treat them as "skip this signal".
//
// On success the trade is appended to the log and the ledger is marked to
// market at the trade price, so every fill produces exactly one equity
// snapshot.
func (l *Ledger) ExecuteTrade(symbol string, qty, price float64, side Side, ts time.Time) bool {
	if symbol == "" || qty <= 0 || price <= 0 {
		return false
	}

	notional := qty * price

	switch side {
	case Buy:
		if notional > l.cash {
			return false
		}
		l.cash -= notional
		l.applyBuy(symbol, qty, price, notional)

	case Sell:
		var held float64
		if pos, ok := l.positions[symbol]; ok {
			held = pos.Quantity
		}
		if !l.allowShort && qty-held > positionEpsilon {
			return false
		}
		l.cash += notional
		l.applySell(symbol, qty, price, notional, held)

	default:
		return false
	}

	rec := TradeRecord{
		ID:       id.New(),
		Time:     ts,
		Symbol:   symbol,
		Side:     side,
		Quantity: qty,
		Price:    price,
		Notional: notional,
	}
	l.trades = append(l.trades, rec)

	if l.journal != nil {
		_ = l.journal.RecordTrade(journal.TradeRecord{
			TradeID:  rec.ID,
			Time:     rec.Time,
			Symbol:   rec.Symbol,
			Side:     rec.Side.String(),
			Quantity: rec.Quantity,
			Price:    rec.Price,
			Notional: rec.Notional,
		})
	}

	l.MarkToMarket(map[string]float64{symbol: price}, ts)
	return true
}

func (l *Ledger) applyBuy(symbol string, qty, price, notional float64) {
	pos, ok := l.positions[symbol]
	if !ok {
		l.positions[symbol] = &Position{Symbol: symbol, Quantity: qty, AvgPrice: price}
		return
	}

	if pos.Quantity >= 0 {
		// Same-direction lot: weighted-average cost basis.
		newQty := pos.Quantity + qty
		pos.AvgPrice = (pos.Quantity*pos.AvgPrice + notional) / newQty
		pos.Quantity = newQty
	} else if qty <= -pos.Quantity {
		// Covering a short reduces it; basis unchanged.
		pos.Quantity += qty
	} else {
		// Crossing through zero: the remainder carries the trade price.
		pos.Quantity += qty
		pos.AvgPrice = price
	}

	l.dropIfFlat(symbol)
}

func (l *Ledger) applySell(symbol string, qty, price, notional, held float64) {
	pos, ok := l.positions[symbol]
	if !ok {
		// Opening a short (only reachable with allowShort).
		l.positions[symbol] = &Position{Symbol: symbol, Quantity: -qty, AvgPrice: price}
		return
	}

	switch {
	case held > 0 && qty <= held+positionEpsilon:
		// Reducing a long; basis unchanged.
		pos.Quantity = held - qty
	case held > 0:
		// Crossing through zero into a short.
		pos.Quantity = held - qty
		pos.AvgPrice = price
	default:
		// Extending a short: weighted basis over absolute quantities.
		newAbs := -held + qty
		pos.AvgPrice = (-held*pos.AvgPrice + notional) / newAbs
		pos.Quantity = held - qty
	}

	l.dropIfFlat(symbol)
}

// dropIfFlat deletes positions within epsilon of zero so no entry rests at
// quantity <= 0 (short entries stay while shorting is enabled).
func (l *Ledger) dropIfFlat(symbol string) {
	pos, ok := l.positions[symbol]
	if !ok {
		return
	}
	if math.Abs(pos.Quantity) <= positionEpsilon {
		delete(l.positions, symbol)
	}
}

// MarkToMarket revalues open positions with the supplied prices and
// appends one equity snapshot unconditionally, so equity curves can be
// time-driven independent of trade frequency. Positions with no supplied
// price are valued at cost basis and never show synthetic P&L.
func (l *Ledger) MarkToMarket(prices map[string]float64, ts time.Time) float64 {
	var posValue float64
	for _, pos := range l.positions {
		mark, ok := prices[pos.Symbol]
		if !ok || mark == 0 {
			mark = pos.AvgPrice
		}
		posValue += pos.Quantity * mark
	}

	snap := EquitySnapshot{
		Time:           ts,
		Cash:           l.cash,
		PositionsValue: posValue,
		Equity:         l.cash + posValue,
	}
	l.history = append(l.history, snap)

	if l.journal != nil {
		_ = l.journal.RecordEquity(journal.EquitySnapshot{
			Time:           snap.Time,
			Cash:           snap.Cash,
			PositionsValue: snap.PositionsValue,
			Equity:         snap.Equity,
		})
	}

	return snap.Equity
}

// InitialCash returns the starting capital.
func (l *Ledger) InitialCash() float64 { return l.initial }

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 { return l.cash }

// Inventory returns the signed net quantity held for a symbol (0 if flat).
func (l *Ledger) Inventory(symbol string) float64 {
	if pos, ok := l.positions[symbol]; ok {
		return pos.Quantity
	}
	return 0
}

// Position returns a copy of the position for a symbol.
func (l *Ledger) Position(symbol string) (Position, bool) {
	pos, ok := l.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns copies of all open positions, sorted by symbol.
func (l *Ledger) Positions() []Position {
	out := make([]Position, 0, len(l.positions))
	for _, pos := range l.positions {
		out = append(out, *pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Trades returns a copy of the trade log.
func (l *Ledger) Trades() []TradeRecord {
	out := make([]TradeRecord, len(l.trades))
	copy(out, l.trades)
	return out
}

// EquityHistory returns a copy of the equity snapshot series.
func (l *Ledger) EquityHistory() []EquitySnapshot {
	out := make([]EquitySnapshot, len(l.history))
	copy(out, l.history)
	return out
}

// LastEquity returns the most recent equity snapshot.
func (l *Ledger) LastEquity() (EquitySnapshot, bool) {
	if len(l.history) == 0 {
		return EquitySnapshot{}, false
	}
	return l.history[len(l.history)-1], true
}
