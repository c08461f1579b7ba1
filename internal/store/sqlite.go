package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alexander-akhmetov/ttct/internal/dirs"
	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/protocol"
)

const timeLayout = time.RFC3339Nano

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path and applies
// migrations.
func OpenSQLite(path string) (*SQLite, error) {
	if err := dirs.Ensure(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateRequest creates a new draft request.
func (s *SQLite) CreateRequest(ctx context.Context, title string) (*domain.Request, error) {
	ts := now()
	req := &domain.Request{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    protocol.RequestDraft,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (id, title, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		req.ID, req.Title, req.Status.String(), ts.Format(timeLayout), ts.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return req, nil
}

// GetRequest returns the request or ErrNotFound.
func (s *SQLite) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, status, created_at, updated_at, submitted_at, submitted_snapshot
		 FROM requests WHERE id = ?`, id)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ListRequests returns all requests, most recently updated first.
func (s *SQLite) ListRequests(ctx context.Context) ([]domain.Request, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, status, created_at, updated_at, submitted_at, submitted_snapshot
		 FROM requests`)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var out []domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortByUpdated(out)
	return out, nil
}

// TouchRequest bumps updated_at.
func (s *SQLite) TouchRequest(ctx context.Context, id string) error {
	return s.execOne(ctx, `UPDATE requests SET updated_at = ? WHERE id = ?`, id, now().Format(timeLayout), id)
}

// SubmitRequest marks the request submitted and stores the snapshot.
func (s *SQLite) SubmitRequest(ctx context.Context, id, snapshot string) error {
	ts := now().Format(timeLayout)
	return s.execOne(ctx,
		`UPDATE requests SET status = ?, submitted_at = ?, submitted_snapshot = ?, updated_at = ? WHERE id = ?`,
		id, protocol.RequestSubmitted.String(), ts, snapshot, ts, id)
}

// SaveSectionData upserts a section payload.
func (s *SQLite) SaveSectionData(ctx context.Context, requestID string, p Payload) error {
	if err := validateSection(p.SectionID); err != nil {
		return err
	}
	if p.SavedAt.IsZero() {
		p.SavedAt = now()
	}
	raw, err := p.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO section_data (request_id, section_id, payload, complete, saved_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (request_id, section_id) DO UPDATE SET
		   payload = excluded.payload, complete = excluded.complete, saved_at = excluded.saved_at`,
		requestID, p.SectionID, string(raw), p.Complete, p.SavedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save section %s: %w", p.SectionID, err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE requests SET updated_at = ? WHERE id = ?`, p.SavedAt.Format(timeLayout), requestID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, requestID)
	}
	return tx.Commit()
}

// LoadSectionData returns the saved payload or nil.
func (s *SQLite) LoadSectionData(ctx context.Context, requestID, sectionID string) (*Payload, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM section_data WHERE request_id = ? AND section_id = ?`,
		requestID, sectionID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load section %s: %w", sectionID, err)
	}
	return ParsePayload([]byte(raw))
}

// SavedSections lists persisted sections in section order.
func (s *SQLite) SavedSections(ctx context.Context, requestID string) ([]SavedSection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section_id, complete, saved_at FROM section_data WHERE request_id = ?`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]SavedSection)
	for rows.Next() {
		var (
			sec     SavedSection
			savedAt string
		)
		if err := rows.Scan(&sec.SectionID, &sec.Complete, &savedAt); err != nil {
			return nil, err
		}
		if sec.SavedAt, err = time.Parse(timeLayout, savedAt); err != nil {
			return nil, fmt.Errorf("parse saved_at: %w", err)
		}
		byID[sec.SectionID] = sec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return inSectionOrder(byID), nil
}

func (s *SQLite) execOne(ctx context.Context, query, id string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update request %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*domain.Request, error) {
	var (
		req              domain.Request
		status           string
		created, updated string
		submitted        sql.NullString
	)
	if err := row.Scan(&req.ID, &req.Title, &status, &created, &updated, &submitted, &req.SubmittedSnapshot); err != nil {
		return nil, err
	}
	req.Status = protocol.RequestStatus(status)

	var err error
	if req.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if req.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if submitted.Valid && submitted.String != "" {
		t, err := time.Parse(timeLayout, submitted.String)
		if err != nil {
			return nil, fmt.Errorf("parse submitted_at: %w", err)
		}
		req.SubmittedAt = &t
	}
	return &req, nil
}

func inSectionOrder(byID map[string]SavedSection) []SavedSection {
	out := make([]SavedSection, 0, len(byID))
	for _, id := range domain.SectionIDs() {
		if sec, ok := byID[id]; ok {
			out = append(out, sec)
		}
	}
	return out
}
