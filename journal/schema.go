package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	policy TEXT NOT NULL,
	state TEXT NOT NULL,
	steps INTEGER NOT NULL,
	total_pnl REAL NOT NULL,
	pnl_volatility REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	turnover REAL NOT NULL,
	total_cost REAL NOT NULL,
	return_ratio REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS steps (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	time DATETIME NOT NULL,
	spot REAL NOT NULL,
	fair_value REAL NOT NULL,
	delta REAL NOT NULL,
	shares REAL NOT NULL,
	option_qty REAL NOT NULL,
	cash REAL NOT NULL,
	realized_pnl REAL NOT NULL,
	unrealized_pnl REAL NOT NULL,
	trade_qty REAL NOT NULL,
	trade_cost REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_steps_time ON steps(time);
`
