package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, time, symbol, side, quantity, price, notional)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Time, t.Symbol, t.Side, t.Quantity, t.Price, t.Notional,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, cash, positions_value, equity)
		VALUES (?, ?, ?, ?)`,
		e.Time, e.Cash, e.PositionsValue, e.Equity,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
