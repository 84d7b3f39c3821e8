// Package storage persists analysis history and the shopping list in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/foodbuddy/backend/internal/domain"
	_ "modernc.org/sqlite"
)

// Config holds storage settings
type Config struct {
	Path         string
	HistoryLimit int
}

// Store implements domain.HistoryRepository and domain.ShoppingListRepository
type Store struct {
	db           *sql.DB
	historyLimit int
}

// New opens (creating if needed) the database at cfg.Path and runs migrations
func New(cfg Config) (*Store, error) {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = domain.DefaultHistoryLimit
	}
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("storage: create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	// A single connection keeps writes serialized
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, historyLimit: cfg.HistoryLimit}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS history (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			id           TEXT    NOT NULL UNIQUE,
			ingredients  TEXT    NOT NULL,
			context      TEXT    NOT NULL,
			result       TEXT    NOT NULL,
			health_score INTEGER NOT NULL,
			created_at   TEXT    NOT NULL
		);

		CREATE TABLE IF NOT EXISTS shopping_list (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			item TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_shopping_list_item ON shopping_list(item);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── History ─────────────────────────────────────────────────────────────────

// Save inserts an item and evicts the oldest entries beyond the history limit
func (s *Store) Save(ctx context.Context, item *domain.HistoryItem) error {
	if item == nil || item.ID == "" {
		return domain.ErrInvalidRequest
	}
	result, err := json.Marshal(item.Result)
	if err != nil {
		return fmt.Errorf("storage: encode result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (id, ingredients, context, result, health_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Ingredients, string(item.Context), string(result), item.HealthScore,
		item.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("storage: insert history: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM history WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)`,
		s.historyLimit)
	if err != nil {
		return fmt.Errorf("storage: trim history: %w", err)
	}

	return tx.Commit()
}

// List returns history items, most recent first
func (s *Store) List(ctx context.Context) ([]domain.HistoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ingredients, context, result, health_score, created_at
		 FROM history ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("storage: query history: %w", err)
	}
	defer rows.Close()

	items := []domain.HistoryItem{}
	for rows.Next() {
		item, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Get returns a single history item or ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (*domain.HistoryItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, ingredients, context, result, health_score, created_at
		 FROM history WHERE id = ?`, id)
	item, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return item, err
}

// Clear removes all history items
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("storage: clear history: %w", err)
	}
	return nil
}

// Stats summarizes the stored health scores
func (s *Store) Stats(ctx context.Context) (*domain.HistoryStats, error) {
	var stats domain.HistoryStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(health_score), 0), COALESCE(MAX(health_score), 0), COALESCE(MIN(health_score), 0)
		 FROM history`).Scan(&stats.Count, &stats.AverageScore, &stats.BestScore, &stats.WorstScore)
	if err != nil {
		return nil, fmt.Errorf("storage: history stats: %w", err)
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (*domain.HistoryItem, error) {
	var (
		item                     domain.HistoryItem
		usage, result, createdAt string
	)
	if err := row.Scan(&item.ID, &item.Ingredients, &usage, &result, &item.HealthScore, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("storage: scan history: %w", err)
	}
	item.Context = domain.UsageContext(usage)
	if err := json.Unmarshal([]byte(result), &item.Result); err != nil {
		return nil, fmt.Errorf("storage: decode result %s: %w", item.ID, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("storage: parse timestamp %s: %w", item.ID, err)
	}
	item.Timestamp = ts
	return &item, nil
}

// ─── Shopping list ───────────────────────────────────────────────────────────

// ShoppingList exposes the shopping list half of the store as a
// domain.ShoppingListRepository
func (s *Store) ShoppingList() *ShoppingList {
	return &ShoppingList{db: s.db}
}

// ShoppingList is the shopping list table
type ShoppingList struct {
	db *sql.DB
}

// Add appends an item
func (l *ShoppingList) Add(ctx context.Context, item string) error {
	if _, err := l.db.ExecContext(ctx, `INSERT INTO shopping_list (item) VALUES (?)`, item); err != nil {
		return fmt.Errorf("storage: add shopping item: %w", err)
	}
	return nil
}

// Remove deletes the oldest entry equal to item, or returns ErrNotFound
func (l *ShoppingList) Remove(ctx context.Context, item string) error {
	res, err := l.db.ExecContext(ctx,
		`DELETE FROM shopping_list WHERE id = (SELECT id FROM shopping_list WHERE item = ? ORDER BY id LIMIT 1)`,
		item)
	if err != nil {
		return fmt.Errorf("storage: remove shopping item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: remove shopping item: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all items in insertion order
func (l *ShoppingList) List(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT item FROM shopping_list ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: query shopping list: %w", err)
	}
	defer rows.Close()

	items := []string{}
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, fmt.Errorf("storage: scan shopping item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Clear removes every item
func (l *ShoppingList) Clear(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM shopping_list`); err != nil {
		return fmt.Errorf("storage: clear shopping list: %w", err)
	}
	return nil
}
