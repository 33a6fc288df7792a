// Package store provides the SQLite-backed transaction ledger.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oleksii-sytar/fincast/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const dateFormat = "2006-01-02"

// UncategorizedID is the sentinel applied to rows with no category. The
// analytics engine never sees a blank category; normalization happens here
// at the storage boundary.
const (
	UncategorizedID   = "uncategorized"
	UncategorizedName = "Uncategorized"
)

// Ledger is the transaction database.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger database at the given path.
func Open(dbPath string) (*Ledger, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Ledger{db: db, path: dbPath}, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file path.
func (l *Ledger) Path() string { return l.path }

// InsertTransactions stores a batch of posted transactions in one database
// transaction. Returns the number of rows written.
func (l *Ledger) InsertTransactions(txns []model.Transaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	tx, err := l.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO transactions
		(amount, tx_date, tx_type, category_id, category_name, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, t := range txns {
		catID, catName := t.CategoryID, t.CategoryName
		if catID == "" {
			catID, catName = UncategorizedID, UncategorizedName
		}
		if _, err := stmt.Exec(
			t.Amount, model.DateOnly(t.Date).Format(dateFormat), string(t.Type),
			catID, catName, t.Note, now,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(txns), nil
}

// InsertPlanned stores a batch of planned transactions.
func (l *Ledger) InsertPlanned(planned []model.PlannedTransaction) (int, error) {
	if len(planned) == 0 {
		return 0, nil
	}

	tx, err := l.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range planned {
		if _, err := tx.Exec(`INSERT INTO planned
			(amount, planned_date, tx_type, note, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			p.Amount, model.DateOnly(p.Date).Format(dateFormat), string(p.Type), p.Note, now,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(planned), nil
}

// Transactions loads posted transactions with dates in [since, until]
// inclusive. Zero times widen the respective bound.
func (l *Ledger) Transactions(since, until time.Time) ([]model.Transaction, error) {
	query := `SELECT id, amount, tx_date, tx_type, category_id, category_name, note
		FROM transactions WHERE 1=1`
	var args []any
	if !since.IsZero() {
		query += " AND tx_date >= ?"
		args = append(args, model.DateOnly(since).Format(dateFormat))
	}
	if !until.IsZero() {
		query += " AND tx_date <= ?"
		args = append(args, model.DateOnly(until).Format(dateFormat))
	}
	query += " ORDER BY tx_date, id"

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var dateStr, typeStr string
		if err := rows.Scan(&t.ID, &t.Amount, &dateStr, &typeStr,
			&t.CategoryID, &t.CategoryName, &t.Note); err != nil {
			return nil, err
		}
		t.Date, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt tx_date %q: %w", dateStr, err)
		}
		t.Type = model.TxType(typeStr)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// Planned loads planned transactions with dates in [since, until] inclusive.
func (l *Ledger) Planned(since, until time.Time) ([]model.PlannedTransaction, error) {
	query := `SELECT id, amount, planned_date, tx_type, note FROM planned WHERE 1=1`
	var args []any
	if !since.IsZero() {
		query += " AND planned_date >= ?"
		args = append(args, model.DateOnly(since).Format(dateFormat))
	}
	if !until.IsZero() {
		query += " AND planned_date <= ?"
		args = append(args, model.DateOnly(until).Format(dateFormat))
	}
	query += " ORDER BY planned_date, id"

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var planned []model.PlannedTransaction
	for rows.Next() {
		var p model.PlannedTransaction
		var dateStr, typeStr string
		if err := rows.Scan(&p.ID, &p.Amount, &dateStr, &typeStr, &p.Note); err != nil {
			return nil, err
		}
		p.Date, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt planned_date %q: %w", dateStr, err)
		}
		p.Type = model.TxType(typeStr)
		planned = append(planned, p)
	}
	return planned, rows.Err()
}

// Balance returns total income minus total expenses across the ledger.
func (l *Ledger) Balance() (float64, error) {
	var balance float64
	err := l.db.QueryRow(`SELECT COALESCE(SUM(
		CASE tx_type WHEN 'income' THEN amount ELSE -amount END), 0)
		FROM transactions`).Scan(&balance)
	return balance, err
}

// Stats describes the ledger's current contents. The daemon compares
// consecutive Stats values to detect changes between polls.
type Stats struct {
	Transactions int64
	Planned      int64
	MaxTxID      int64
	MaxPlannedID int64
	EarliestDate time.Time
	LatestDate   time.Time
}

// Stats reads row counts and the posted date range.
func (l *Ledger) Stats() (Stats, error) {
	var st Stats
	var earliest, latest sql.NullString

	err := l.db.QueryRow(`SELECT
		(SELECT COUNT(*) FROM transactions),
		(SELECT COUNT(*) FROM planned),
		(SELECT COALESCE(MAX(id), 0) FROM transactions),
		(SELECT COALESCE(MAX(id), 0) FROM planned),
		(SELECT MIN(tx_date) FROM transactions),
		(SELECT MAX(tx_date) FROM transactions)`).
		Scan(&st.Transactions, &st.Planned, &st.MaxTxID, &st.MaxPlannedID, &earliest, &latest)
	if err != nil {
		return st, err
	}

	if earliest.Valid {
		st.EarliestDate, _ = time.Parse(dateFormat, earliest.String)
	}
	if latest.Valid {
		st.LatestDate, _ = time.Parse(dateFormat, latest.String)
	}
	return st, nil
}
