package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordStep(s StepRow) error {
	_, err := j.db.Exec(`
		INSERT INTO steps
		(run_id, seq, time, spot, fair_value, delta, shares, option_qty, cash, realized_pnl, unrealized_pnl, trade_qty, trade_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.Seq, s.Time, s.Spot, s.FairValue, s.Delta, s.Shares,
		s.OptionQty, s.Cash, s.RealizedPnL, s.UnrealizedPnL, s.TradeQty, s.TradeCost,
	)
	return err
}

func (j *SQLiteJournal) RecordRun(r RunRow) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, policy, state, steps, total_pnl, pnl_volatility, max_drawdown, turnover, total_cost, return_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Policy, r.State, r.Steps,
		r.TotalPnL, r.PnLVolatility, r.MaxDrawdown, r.Turnover, r.TotalCost, r.ReturnRatio,
	)
	return err
}

// ListRuns returns run summaries ordered by run ID, which sorts by
// creation time (ULIDs are time-prefixed).
func (j *SQLiteJournal) ListRuns() ([]RunRow, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, policy, state, steps, total_pnl, pnl_volatility, max_drawdown, turnover, total_cost, return_ratio
		FROM runs ORDER BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.RunID, &r.Created, &r.Policy, &r.State, &r.Steps,
			&r.TotalPnL, &r.PnLVolatility, &r.MaxDrawdown, &r.Turnover, &r.TotalCost, &r.ReturnRatio); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListSteps returns a run's step rows in sequence order.
func (j *SQLiteJournal) ListSteps(runID string) ([]StepRow, error) {
	rows, err := j.db.Query(`
		SELECT run_id, seq, time, spot, fair_value, delta, shares, option_qty, cash, realized_pnl, unrealized_pnl, trade_qty, trade_cost
		FROM steps WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StepRow
	for rows.Next() {
		var s StepRow
		if err := rows.Scan(&s.RunID, &s.Seq, &s.Time, &s.Spot, &s.FairValue, &s.Delta,
			&s.Shares, &s.OptionQty, &s.Cash, &s.RealizedPnL, &s.UnrealizedPnL, &s.TradeQty, &s.TradeCost); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
