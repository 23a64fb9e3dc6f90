package options

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore reads and writes option rows in a two-column SQL table.
// Queries use $N placeholders, which sqlite3, pgx and lib/pq accept.
type SQLStore struct {
	db        *sql.DB
	tableName string
}

// SQLConfig holds SQL option store configuration
type SQLConfig struct {
	// DB is the database connection
	DB *sql.DB

	// TableName is the name of the options table
	TableName string

	// CreateTable creates the table when it does not exist
	CreateTable bool
}

// DefaultSQLConfig returns default SQL store configuration
func DefaultSQLConfig(db *sql.DB) *SQLConfig {
	return &SQLConfig{
		DB:          db,
		TableName:   "options",
		CreateTable: true,
	}
}

// NewSQLStore creates a new SQL option store
func NewSQLStore(config *SQLConfig) (*SQLStore, error) {
	if config == nil || config.DB == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	if !identifierPattern.MatchString(config.TableName) {
		return nil, fmt.Errorf("invalid options table name %q", config.TableName)
	}

	store := &SQLStore{
		db:        config.DB,
		tableName: config.TableName,
	}

	if config.CreateTable {
		if err := store.createTable(); err != nil {
			return nil, fmt.Errorf("failed to create options table: %w", err)
		}
	}

	return store, nil
}

// createTable creates the options table if it doesn't exist
func (s *SQLStore) createTable() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			option_name VARCHAR(191) PRIMARY KEY,
			option_value TEXT NOT NULL
		)
	`, s.tableName)

	_, err := s.db.Exec(query)
	return err
}

// Get returns a single row
func (s *SQLStore) Get(ctx context.Context, name string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT option_value FROM %s WHERE option_name = $1`, s.tableName)

	var value string
	err := s.db.QueryRowContext(ctx, query, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("database query error: %w", err)
	}
	return value, true, nil
}

// Scan returns all rows with the prefix, sorted by name. LIKE treats
// underscores as wildcards, so names are re-checked against the prefix.
func (s *SQLStore) Scan(ctx context.Context, prefix string) ([]Option, error) {
	query := fmt.Sprintf(`
		SELECT option_name, option_value
		FROM %s
		WHERE option_name LIKE $1
		ORDER BY option_name
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	result := make([]Option, 0)
	for rows.Next() {
		var opt Option
		if err := rows.Scan(&opt.Name, &opt.Value); err != nil {
			return nil, fmt.Errorf("failed to scan option row: %w", err)
		}
		if strings.HasPrefix(opt.Name, prefix) {
			result = append(result, opt)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return result, nil
}

// Set inserts or replaces a row
func (s *SQLStore) Set(ctx context.Context, name, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (option_name, option_value)
		VALUES ($1, $2)
		ON CONFLICT (option_name) DO UPDATE SET
			option_value = EXCLUDED.option_value
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query, name, value); err != nil {
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// Delete removes a row
func (s *SQLStore) Delete(ctx context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE option_name = $1`, s.tableName)

	result, err := s.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("database delete error: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database
func (s *SQLStore) Close() error {
	return s.db.Close()
}
