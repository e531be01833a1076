package artifact

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"reelmatch/internal/catalog"
	"reelmatch/internal/similarity"
)

// BundleFormat identifies the bundle schema written by WriteBundle.
const BundleFormat = "reelmatch-bundle/1"

//go:embed bundle_schema.sql
var bundleSchema string

func openBundle(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite bundle: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}
	return db, nil
}

// ReadBundle loads the catalog and matrix stored in a SQLite bundle.
func ReadBundle(ctx context.Context, path string) (*catalog.Catalog, *similarity.Matrix, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("stat bundle: %w", err)
	}
	db, err := openBundle(path)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	var format string
	err = db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'format'").Scan(&format)
	if err != nil {
		return nil, nil, fmt.Errorf("read bundle format: %w", err)
	}
	if format != BundleFormat {
		return nil, nil, fmt.Errorf("unsupported bundle format %q", format)
	}

	c, err := readBundleItems(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	m, err := readBundleMatrix(ctx, db, c.Len())
	if err != nil {
		return nil, nil, err
	}
	return c, m, nil
}

func readBundleItems(ctx context.Context, db *sql.DB) (*catalog.Catalog, error) {
	rows, err := db.QueryContext(ctx, "SELECT position, title FROM items ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var item catalog.Item
		if err := rows.Scan(&item.Position, &item.Title); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return catalog.New(items)
}

func readBundleMatrix(ctx context.Context, db *sql.DB, dim int) (*similarity.Matrix, error) {
	rows, err := db.QueryContext(ctx, "SELECT position, scores FROM similarity ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query similarity: %w", err)
	}
	defer rows.Close()

	data := make([]float64, 0, dim*dim)
	next := 0
	for rows.Next() {
		var (
			position int
			blob     []byte
		)
		if err := rows.Scan(&position, &blob); err != nil {
			return nil, fmt.Errorf("scan similarity row: %w", err)
		}
		if position != next {
			return nil, fmt.Errorf("similarity rows must be contiguous from 0; found %d after %d", position, next-1)
		}
		if len(blob) != dim*8 {
			return nil, fmt.Errorf("similarity row %d holds %d bytes, want %d for dimension %d", position, len(blob), dim*8, dim)
		}
		for off := 0; off < len(blob); off += 8 {
			data = append(data, math.Float64frombits(binary.LittleEndian.Uint64(blob[off:off+8])))
		}
		next++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similarity: %w", err)
	}
	if next != dim {
		return nil, fmt.Errorf("bundle has %d similarity rows for %d catalog items", next, dim)
	}
	return similarity.New(dim, data)
}

// WriteBundle stores c and m in a new SQLite file at path, replacing any
// existing file only after the write succeeds.
func WriteBundle(ctx context.Context, path string, c *catalog.Catalog, m *similarity.Matrix) error {
	if c.Len() != m.Dim() {
		return fmt.Errorf("similarity dimension %d does not match catalog size %d", m.Dim(), c.Len())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale temp bundle: %w", err)
	}

	if err := writeBundleFile(ctx, tmpPath, c, m); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace bundle: %w", err)
	}
	return nil
}

func writeBundleFile(ctx context.Context, path string, c *catalog.Catalog, m *similarity.Matrix) error {
	db, err := openBundle(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bundle transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, bundleSchema); err != nil {
		return fmt.Errorf("create bundle schema: %w", err)
	}
	meta := map[string]string{
		"format":    BundleFormat,
		"dimension": strconv.Itoa(m.Dim()),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}

	itemStmt, err := tx.PrepareContext(ctx, "INSERT INTO items (position, title) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare items insert: %w", err)
	}
	defer itemStmt.Close()
	rowStmt, err := tx.PrepareContext(ctx, "INSERT INTO similarity (position, scores) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare similarity insert: %w", err)
	}
	defer rowStmt.Close()

	blob := make([]byte, m.Dim()*8)
	for _, item := range c.Items() {
		if _, err := itemStmt.ExecContext(ctx, item.Position, item.Title); err != nil {
			return fmt.Errorf("insert item %d: %w", item.Position, err)
		}
		row, _ := m.Row(item.Position)
		for idx, v := range row {
			binary.LittleEndian.PutUint64(blob[idx*8:], math.Float64bits(v))
		}
		if _, err := rowStmt.ExecContext(ctx, item.Position, blob); err != nil {
			return fmt.Errorf("insert similarity row %d: %w", item.Position, err)
		}
	}
	return tx.Commit()
}
