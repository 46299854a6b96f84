package service

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"signal_bot/pkg/db"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS cycle_journal (
    id          BIGSERIAL PRIMARY KEY,
    cycle_id    UUID        NOT NULL,
    inst_id     TEXT        NOT NULL,
    bar         TEXT        NOT NULL,
    stage       TEXT        NOT NULL,
    signal      TEXT        NOT NULL,
    change      INTEGER     NOT NULL,
    close       DOUBLE PRECISION,
    rsi         DOUBLE PRECISION,
    macd        DOUBLE PRECISION,
    macd_signal DOUBLE PRECISION,
    order_id    TEXT        NOT NULL DEFAULT '',
    order_code  TEXT        NOT NULL DEFAULT '',
    error       TEXT        NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL
)`

const insertSQL = `
INSERT INTO cycle_journal
    (cycle_id, inst_id, bar, stage, signal, change, close, rsi, macd, macd_signal, order_id, order_code, error, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

// Entry — одна строка журнала: итог цикла опроса.
type Entry struct {
	CycleID    string
	InstID     string
	Bar        string
	Stage      string
	Signal     string
	Change     int
	Close      float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	OrderID    string
	OrderCode  string
	Error      string
	At         time.Time
}

// Journal пишет итоги циклов в postgres. Бот журнал не читает; без БД все методы — no-op.
type Journal struct {
	tx db.TxManager
}

func New(tx db.TxManager) *Journal {
	return &Journal{tx: tx}
}

// NewJournal — вариант для fx: nil-менеджер означает, что журнал выключен.
func NewJournal(m *db.PgTxManager) *Journal {
	if m == nil {
		return &Journal{}
	}
	return New(m)
}

func (j *Journal) Enabled() bool { return j != nil && j.tx != nil }

func (j *Journal) EnsureSchema(ctx context.Context) error {
	if !j.Enabled() {
		return nil
	}
	return j.tx.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, createTableSQL)
		return errors.Wrap(err, "create cycle_journal")
	})
}

func (j *Journal) Record(ctx context.Context, e Entry) error {
	if !j.Enabled() {
		return nil
	}
	return j.tx.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, insertSQL,
			e.CycleID, e.InstID, e.Bar, e.Stage, e.Signal, e.Change,
			nullable(e.Close), nullable(e.RSI), nullable(e.MACD), nullable(e.MACDSignal),
			e.OrderID, e.OrderCode, e.Error, e.At.UTC(),
		)
		return errors.Wrap(err, "insert cycle_journal")
	})
}

// NaN (индикатор ещё не определён) пишем как NULL.
func nullable(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
