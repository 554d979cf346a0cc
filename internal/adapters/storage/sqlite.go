package storage

// sqlite.go — key-value store del registro serializado de cada portfolio.
//
// Estrategia:
//   - `portfolios`: UNA fila por usuario (UPSERT), el portfolio completo
//     como JSON. El core define la forma del registro; el store es opaco.
//   - Sin historia: el ledger en memoria es la fuente de verdad durante
//     la sesión, esto es persistencia-at-rest entre arranques.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/junaidxd786/mememarket/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS portfolios (
    user_id    TEXT PRIMARY KEY,
    record     TEXT     NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implementa ports.PortfolioStore usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada y aplica
// el schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save hace upsert del portfolio completo como JSON.
func (s *SQLiteStore) Save(ctx context.Context, p *domain.Portfolio) error {
	record, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("storage.Save: marshal portfolio %q: %w", p.UserID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO portfolios (user_id, record, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
		    record = excluded.record,
		    updated_at = excluded.updated_at
	`, p.UserID, string(record))
	if err != nil {
		return fmt.Errorf("storage.Save: upsert %q: %w", p.UserID, err)
	}
	return nil
}

// Load devuelve el portfolio del usuario, o domain.ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, userID string) (*domain.Portfolio, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM portfolios WHERE user_id = ?`, userID,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage.Load: portfolio %q: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage.Load: query %q: %w", userID, err)
	}

	var p domain.Portfolio
	if err := json.Unmarshal([]byte(record), &p); err != nil {
		return nil, fmt.Errorf("storage.Load: unmarshal %q: %w", userID, err)
	}
	return &p, nil
}

// Close cierra la conexión limpiamente.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
