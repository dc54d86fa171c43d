package journal

const Schema = `
CREATE TABLE IF NOT EXISTS decisions (
	decision_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	equity REAL NOT NULL,
	regime TEXT NOT NULL,
	volatility_percentile REAL NOT NULL,
	reference_price REAL NOT NULL,
	approved INTEGER NOT NULL,
	lot REAL NOT NULL,
	reason TEXT NOT NULL,
	detail TEXT NOT NULL,
	coefficient REAL NOT NULL,
	notional REAL NOT NULL,
	total_before REAL NOT NULL,
	total_after REAL NOT NULL,
	symbol_before REAL NOT NULL,
	symbol_after REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_time ON decisions(time);
CREATE INDEX IF NOT EXISTS idx_decisions_symbol ON decisions(symbol);

CREATE TABLE IF NOT EXISTS spec_changes (
	change_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	old_spec TEXT NOT NULL,
	new_spec TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_spec_changes_symbol ON spec_changes(symbol);
`
