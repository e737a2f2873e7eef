package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pricelab/cpix-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
)

// dateLayout is how row dates are stored, first day of the period.
const dateLayout = "2006-01-02"

// Store is the SQLite-backed home of the main time-series dataset: the
// published item rows plus every custom index row committed to it.
type Store struct {
	db   *sql.DB
	path string
	dir  string
}

// NewStore creates a SQLite store in the given data directory. If dataDir is
// empty, defaults to ~/.cpix/data/dataset.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".cpix", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "dataset.db")

	// WAL keeps readers unblocked while the wizard commits.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		dir:  dataDir,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DatasetStore returns a DatasetStore interface backed by this store.
func (s *Store) DatasetStore() driven.DatasetStore {
	return &datasetStore{store: s}
}

// PriceSource adapts the dataset's item rows to the price source port, so
// calculations can run off the main dataset instead of a matrix file.
func (s *Store) PriceSource() driven.PriceSource {
	return &datasetPrices{store: s}
}

// migrate applies every pending .up.sql migration in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match the NNN_name pattern
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Dataset Store ====================

// datasetStore implements driven.DatasetStore.
type datasetStore struct {
	store *Store
}

var _ driven.DatasetStore = (*datasetStore)(nil)

// AppendRows adds result rows to the main dataset inside one transaction.
func (s *datasetStore) AppendRows(ctx context.Context, rows []domain.ResultRow) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO series_rows
			(date, year, month, state, sector, division, grp, class, sub_class, item, code,
			 index_value, mom_change, yoy_change)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			row.Date.Format(dateLayout), row.Year, row.Month, row.State, row.Sector,
			row.Division, row.Group, row.Class, row.Subclass, row.Item, row.Code,
			row.Index, nullFloat(row.MoM), nullFloat(row.YoY)); err != nil {
			return fmt.Errorf("appending row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveStandalone writes result rows as a CSV artifact next to the database
// and returns its path. The column layout matches the main dataset.
func (s *datasetStore) SaveStandalone(_ context.Context, name string, rows []domain.ResultRow) (string, error) {
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	path := filepath.Join(s.store.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating artifact: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"date", "year", "month", "state", "sector", "division",
		"group", "class", "sub_class", "item", "code",
		"index", "mom_change", "yoy_change",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Date.Format(dateLayout),
			strconv.Itoa(row.Year),
			strconv.Itoa(row.Month),
			row.State,
			row.Sector,
			row.Division,
			row.Group,
			row.Class,
			row.Subclass,
			row.Item,
			row.Code,
			formatFloat(row.Index),
			formatChange(row.MoM),
			formatChange(row.YoY),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing artifact: %w", err)
	}
	return path, nil
}

// RecordCommit stores the audit record for a committed result.
func (s *datasetStore) RecordCommit(ctx context.Context, rec driven.CommitRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO custom_indices (id, name, items_count, total_weight, excluded_weight, rows, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			items_count = excluded.items_count,
			total_weight = excluded.total_weight,
			excluded_weight = excluded.excluded_weight,
			rows = excluded.rows,
			created_at = excluded.created_at
	`, rec.ID, rec.Name, rec.ItemsCount, rec.TotalWeight, rec.ExcludedWeight, rec.Rows, rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("recording commit: %w", err)
	}
	return nil
}

// ListCommits returns every audit record, newest first.
func (s *datasetStore) ListCommits(ctx context.Context) ([]driven.CommitRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, items_count, total_weight, excluded_weight, rows, created_at
		FROM custom_indices
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying commits: %w", err)
	}
	defer rows.Close()

	var records []driven.CommitRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec driven.CommitRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.ItemsCount, &rec.TotalWeight,
			&rec.ExcludedWeight, &rec.Rows, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning commit: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating commits: %w", err)
	}
	return records, nil
}

// ItemSeries reads the item-level rows back as a price series, one stream
// per state and sector. Aggregate rows carry the '*' sentinel and are
// skipped.
func (s *datasetStore) ItemSeries(ctx context.Context) (*domain.PriceSeries, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT year, month, state, sector, code, index_value
		FROM series_rows
		WHERE item != ? AND code != ?
		ORDER BY year, month
	`, domain.Aggregate, domain.Aggregate)
	if err != nil {
		return nil, fmt.Errorf("querying item rows: %w", err)
	}
	defer rows.Close()

	series := domain.NewPriceSeries()
	for rows.Next() {
		var (
			year, month   int
			state, sector string
			code          string
			value         float64
		)
		if err := rows.Scan(&year, &month, &state, &sector, &code, &value); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		group := domain.GroupKey{State: state, Sector: sector}
		series.Add(group, domain.Period{Year: year, Month: time.Month(month)}, code, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}
	return series, nil
}

// Close releases the underlying storage.
func (s *datasetStore) Close() error {
	return s.store.Close()
}

// ==================== Price Source Adapter ====================

// datasetPrices implements driven.PriceSource over the dataset's item rows.
type datasetPrices struct {
	store *Store
}

var _ driven.PriceSource = (*datasetPrices)(nil)

// LoadPrices reads the item rows into a price series.
func (p *datasetPrices) LoadPrices(ctx context.Context) (*domain.PriceSeries, error) {
	return (&datasetStore{store: p.store}).ItemSeries(ctx)
}

// ==================== Helper Functions ====================

// nullFloat converts an optional change value for storage. A nil pointer
// stores NULL, which round-trips to an empty artifact cell.
func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// formatFloat renders an index value for the CSV artifact.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatChange renders an optional change value, empty when undefined.
func formatChange(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
