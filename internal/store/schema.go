package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transactions (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    amount         REAL NOT NULL CHECK (amount >= 0),
    tx_date        TEXT NOT NULL,
    tx_type        TEXT NOT NULL CHECK (tx_type IN ('income', 'expense')),
    category_id    TEXT NOT NULL DEFAULT '',
    category_name  TEXT NOT NULL DEFAULT '',
    note           TEXT NOT NULL DEFAULT '',
    created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS planned (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    amount         REAL NOT NULL CHECK (amount >= 0),
    planned_date   TEXT NOT NULL,
    tx_type        TEXT NOT NULL CHECK (tx_type IN ('income', 'expense')),
    note           TEXT NOT NULL DEFAULT '',
    created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(tx_date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id);
CREATE INDEX IF NOT EXISTS idx_planned_date ON planned(planned_date);
`
