package modelsync

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a MetadataStore backed by a sqlite database. It trades the
// default flat-file layout for transactional single-record writes, which some
// embedders prefer when metadata for many applications shares one file.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements MetadataStore.
var _ MetadataStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) a sqlite-backed metadata store at
// path. Pass the result to WithStore. The caller owns the store and should
// Close it when done.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS model_metadata (
  app TEXT NOT NULL,
  name TEXT NOT NULL,
  download_url TEXT NOT NULL DEFAULT '',
  size_bytes INTEGER NOT NULL DEFAULT 0,
  model_hash TEXT NOT NULL DEFAULT '',
  local_path TEXT NOT NULL DEFAULT '',
  updated_at DATETIME,
  PRIMARY KEY (app, name)
);
`)
	return err
}

// Load returns the record for (app, name).
func (s *SQLiteStore) Load(ctx context.Context, app, name string) (ModelInfo, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT name, download_url, size_bytes, model_hash, local_path, updated_at
FROM model_metadata WHERE app=? AND name=?;
`, app, name)

	var info ModelInfo
	var updatedAt sql.NullTime
	err := row.Scan(&info.Name, &info.DownloadURL, &info.Size, &info.ModelHash, &info.LocalPath, &updatedAt)
	if err == sql.ErrNoRows {
		return ModelInfo{}, false, nil
	}
	if err != nil {
		return ModelInfo{}, false, fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	if updatedAt.Valid {
		info.UpdatedAt = updatedAt.Time
	}
	return info, true, nil
}

// Save writes the record for (app, info.Name).
func (s *SQLiteStore) Save(ctx context.Context, app string, info ModelInfo) error {
	if info.Name == "" {
		return ErrInvalidName
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO model_metadata(app, name, download_url, size_bytes, model_hash, local_path, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(app, name) DO UPDATE SET
  download_url=excluded.download_url,
  size_bytes=excluded.size_bytes,
  model_hash=excluded.model_hash,
  local_path=excluded.local_path,
  updated_at=excluded.updated_at;
`, app, info.Name, info.DownloadURL, info.Size, info.ModelHash, info.LocalPath, info.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	return nil
}

// Delete removes the record for (app, name).
func (s *SQLiteStore) Delete(ctx context.Context, app, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM model_metadata WHERE app=? AND name=?;", app, name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	return nil
}

// List returns all records for app, sorted by model name.
func (s *SQLiteStore) List(ctx context.Context, app string) ([]ModelInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT name, download_url, size_bytes, model_hash, local_path, updated_at
FROM model_metadata WHERE app=? ORDER BY name ASC;
`, app)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	defer rows.Close()

	var out []ModelInfo
	for rows.Next() {
		var info ModelInfo
		var updatedAt sql.NullTime
		if err := rows.Scan(&info.Name, &info.DownloadURL, &info.Size, &info.ModelHash, &info.LocalPath, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
		}
		if updatedAt.Valid {
			info.UpdatedAt = updatedAt.Time
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
