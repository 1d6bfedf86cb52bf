package history

const schema = `
CREATE TABLE IF NOT EXISTS deals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ticket INTEGER NOT NULL,
	order_ticket INTEGER NOT NULL,
	position_id INTEGER NOT NULL,
	time DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	type TEXT NOT NULL,
	entry TEXT NOT NULL,
	reason TEXT NOT NULL,
	magic INTEGER NOT NULL,
	volume TEXT NOT NULL,
	price TEXT NOT NULL,
	commission TEXT NOT NULL,
	swap TEXT NOT NULL,
	profit TEXT NOT NULL,
	balance TEXT NOT NULL,
	comment TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deals_time ON deals(time);
CREATE INDEX IF NOT EXISTS idx_deals_symbol ON deals(symbol);
`
