package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"marketintel/internal/types"
)

// ErrNoPosition is returned when removing a symbol the ledger does not
// hold.
var ErrNoPosition = errors.New("no position for symbol")

// SymbolLister is the slice of the ledger the scheduler and the mood
// endpoint depend on.
type SymbolLister interface {
	Symbols(ctx context.Context) ([]string, error)
}

// Ledger is the persisted list of tracked positions. It is the only
// durable state in the system; everything else is recomputed.
type Ledger struct {
	db *sql.DB
}

// Open opens (or creates) the ledger database and runs migrations.
// WAL mode keeps dashboard reads from blocking scheduler writes.
func Open(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return l, nil
}

func (l *Ledger) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			symbol      TEXT PRIMARY KEY,
			shares      REAL NOT NULL,
			entry_price REAL NOT NULL,
			added_at    INTEGER NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := l.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Add upserts a position. Re-adding a held symbol replaces its shares
// and entry price; the dashboard treats that as reconfiguring the
// holding rather than averaging in.
func (l *Ledger) Add(ctx context.Context, p types.Position) error {
	symbol := strings.ToUpper(strings.TrimSpace(p.Symbol))
	if symbol == "" {
		return errors.New("symbol cannot be empty")
	}
	if p.Shares <= 0 {
		return fmt.Errorf("shares must be positive, got %v", p.Shares)
	}
	if p.EntryPrice <= 0 {
		return fmt.Errorf("entry price must be positive, got %v", p.EntryPrice)
	}

	addedAt := p.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}

	_, err := l.db.ExecContext(ctx, `INSERT INTO positions (symbol, shares, entry_price, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET shares=excluded.shares, entry_price=excluded.entry_price`,
		symbol, p.Shares, p.EntryPrice, addedAt.Unix())
	return err
}

// Remove deletes a position, reporting ErrNoPosition when the symbol
// was never held.
func (l *Ledger) Remove(ctx context.Context, symbol string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM positions WHERE symbol = ?`,
		strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoPosition
	}
	return nil
}

// List returns every position ordered by symbol.
func (l *Ledger) List(ctx context.Context) ([]types.Position, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT symbol, shares, entry_price, added_at FROM positions ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []types.Position
	for rows.Next() {
		var p types.Position
		var addedAt int64
		if err := rows.Scan(&p.Symbol, &p.Shares, &p.EntryPrice, &addedAt); err != nil {
			return nil, err
		}
		p.AddedAt = time.Unix(addedAt, 0).UTC()
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Symbols returns the held symbols ordered by symbol.
func (l *Ledger) Symbols(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT symbol FROM positions ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

func (l *Ledger) Close() error {
	return l.db.Close()
}
