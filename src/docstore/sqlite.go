package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (collection, id)
)`

// SQLiteStore implements Store on a local sqlite database, one row per
// document with the body held as JSON and filters compiled to json_extract
// predicates.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed initializes) a document database at path.
// Use ":memory:" for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(documentsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize documents table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeBody(body)
}

func (s *SQLiteStore) Select(ctx context.Context, q Query) ([]Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	col := Lookup(q.Collection)

	var sb strings.Builder
	sb.WriteString(`SELECT body FROM documents WHERE collection = ?`)
	args := []any{q.Collection}

	for _, f := range q.Filters {
		path := jsonPath(col, f.Field)
		switch f.Op {
		case OpEq:
			sb.WriteString(fmt.Sprintf(` AND json_extract(body, %s) = ?`, path))
			args = append(args, bindValue(f.Value))
		case OpIn:
			vals := f.Value.([]any)
			placeholders := strings.TrimSuffix(strings.Repeat("?,", len(vals)), ",")
			sb.WriteString(fmt.Sprintf(` AND json_extract(body, %s) IN (%s)`, path, placeholders))
			for _, v := range vals {
				args = append(args, bindValue(v))
			}
		case OpGte:
			sb.WriteString(fmt.Sprintf(` AND json_extract(body, %s) >= ?`, path))
			args = append(args, bindValue(f.Value))
		case OpLte:
			sb.WriteString(fmt.Sprintf(` AND json_extract(body, %s) <= ?`, path))
			args = append(args, bindValue(f.Value))
		}
	}

	if q.OrderBy != nil {
		dir := "ASC"
		if q.OrderBy.Desc {
			dir = "DESC"
		}
		sb.WriteString(fmt.Sprintf(` ORDER BY json_extract(body, %s) %s`, jsonPath(col, q.OrderBy.Field), dir))
	}
	if q.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		doc, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) Put(ctx context.Context, collection, id string, doc Document) error {
	col := Lookup(collection)
	if col == nil {
		return fmt.Errorf("%w: unknown collection %q", ErrInvalidQuery, collection)
	}
	body, err := json.Marshal(EncodeTimestamps(col, doc))
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		collection, id, string(body), time.Now().UTC())
	return err
}

func (s *SQLiteStore) Apply(ctx context.Context, collection, id string, mutate func(Document) (Document, error)) (Document, error) {
	col := Lookup(collection)
	if col == nil {
		return nil, fmt.Errorf("%w: unknown collection %q", ErrInvalidQuery, collection)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	doc, err := decodeBody(body)
	if err != nil {
		return nil, err
	}
	updated, err := mutate(doc)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(EncodeTimestamps(col, updated))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(encoded), time.Now().UTC(), collection, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func decodeBody(body string) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document body: %w", err)
	}
	return DecodeTimestamps(doc), nil
}

// jsonPath returns a quoted json_extract path for the field, descending into
// the sentinel for timestamp fields so comparisons run on the raw millis.
func jsonPath(col *Collection, field string) string {
	if col.IsTimestampField(field) {
		return fmt.Sprintf(`'$.%s."%s"'`, field, sentinelKey)
	}
	return fmt.Sprintf(`'$.%s'`, field)
}

// bindValue converts filter values to sqlite-comparable primitives.
func bindValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().UnixMilli()
	}
	return v
}
