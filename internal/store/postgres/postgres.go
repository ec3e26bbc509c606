// Package postgres implements the store contract on PostgreSQL via the pgx
// stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/allana0-dev/refynely-backend/internal/model"
	"github.com/allana0-dev/refynely-backend/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS decks (
    deck_id       TEXT PRIMARY KEY,
    owner_id      TEXT NOT NULL,
    title         TEXT NOT NULL,
    creation_time TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS slides (
    slide_id      TEXT PRIMARY KEY,
    deck_id       TEXT NOT NULL REFERENCES decks(deck_id) ON DELETE CASCADE,
    title         TEXT NOT NULL,
    content       TEXT NOT NULL,
    speaker_notes TEXT NOT NULL DEFAULT '',
    order_index   INTEGER NOT NULL,
    layout        JSONB,
    creation_time TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS slide_versions (
    seq           BIGSERIAL,
    version_id    TEXT PRIMARY KEY,
    slide_id      TEXT NOT NULL REFERENCES slides(slide_id) ON DELETE CASCADE,
    content       TEXT NOT NULL,
    speaker_notes TEXT NOT NULL,
    layout        JSONB,
    created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_slides_deck ON slides(deck_id, order_index);
CREATE INDEX IF NOT EXISTS idx_versions_slide ON slide_versions(slide_id, created_at DESC);
`

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema. Idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// NewWithDB constructs a Postgres store backed by an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Decks() store.Decks       { return &decks{db: s.db} }
func (s *pgStore) Slides() store.Slides     { return &slides{db: s.db} }
func (s *pgStore) Versions() store.Versions { return &versions{db: s.db} }

// HealthPing reports connectivity.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func layoutJSON(l *model.Layout) (any, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func layoutFromJSON(raw sql.NullString) (*model.Layout, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var l model.Layout
	if err := json.Unmarshal([]byte(raw.String), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// --- Decks ---

type decks struct{ db *sql.DB }

func (d *decks) Create(ctx context.Context, m *model.Deck) (*model.Deck, error) {
	id := m.DeckID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO decks (deck_id, owner_id, title, creation_time) VALUES ($1,$2,$3,$4)`,
		id, m.OwnerID, m.Title, now); err != nil {
		return nil, err
	}

	out := &model.Deck{DeckID: id, OwnerID: m.OwnerID, Title: m.Title, CreationTime: now}
	for i, sl := range m.Slides {
		sid := sl.SlideID
		if sid == "" {
			sid = uuid.New().String()
		}
		lay, err := layoutJSON(sl.Layout)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO slides (slide_id, deck_id, title, content, speaker_notes, order_index, layout, creation_time)
             VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			sid, id, sl.Title, sl.Content, sl.SpeakerNotes, i, lay, now); err != nil {
			return nil, err
		}
		cp := *sl
		cp.SlideID = sid
		cp.DeckID = id
		cp.OrderIndex = i
		cp.CreationTime = now
		out.Slides = append(out.Slides, &cp)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *decks) GetByID(ctx context.Context, ownerID, deckID string) (*model.Deck, error) {
	var out model.Deck
	row := d.db.QueryRowContext(ctx,
		`SELECT deck_id, owner_id, title, creation_time FROM decks WHERE deck_id=$1 AND owner_id=$2`,
		deckID, ownerID)
	if err := row.Scan(&out.DeckID, &out.OwnerID, &out.Title, &out.CreationTime); err != nil {
		return nil, notFound(err)
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT slide_id, deck_id, title, content, speaker_notes, order_index, layout, creation_time
         FROM slides WHERE deck_id=$1 ORDER BY order_index ASC`, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		sl, err := scanSlide(rows.Scan)
		if err != nil {
			return nil, err
		}
		out.Slides = append(out.Slides, sl)
	}
	return &out, rows.Err()
}

func (d *decks) GetMeta(ctx context.Context, deckID string) (*model.Deck, error) {
	var out model.Deck
	row := d.db.QueryRowContext(ctx,
		`SELECT deck_id, owner_id, title, creation_time FROM decks WHERE deck_id=$1`, deckID)
	if err := row.Scan(&out.DeckID, &out.OwnerID, &out.Title, &out.CreationTime); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (d *decks) List(ctx context.Context, ownerID string) ([]*model.Deck, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT deck_id, owner_id, title, creation_time FROM decks WHERE owner_id=$1 ORDER BY creation_time DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Deck
	for rows.Next() {
		var m model.Deck
		if err := rows.Scan(&m.DeckID, &m.OwnerID, &m.Title, &m.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (d *decks) UpdateTitle(ctx context.Context, deckID, title string) error {
	res, err := d.db.ExecContext(ctx, `UPDATE decks SET title=$1 WHERE deck_id=$2`, title, deckID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (d *decks) Delete(ctx context.Context, deckID string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM decks WHERE deck_id=$1`, deckID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanSlide(scan func(...any) error) (*model.Slide, error) {
	var sl model.Slide
	var lay sql.NullString
	if err := scan(&sl.SlideID, &sl.DeckID, &sl.Title, &sl.Content, &sl.SpeakerNotes, &sl.OrderIndex, &lay, &sl.CreationTime); err != nil {
		return nil, err
	}
	l, err := layoutFromJSON(lay)
	if err != nil {
		return nil, err
	}
	sl.Layout = l
	return &sl, nil
}

// --- Slides ---

type slides struct{ db *sql.DB }

func (s *slides) Get(ctx context.Context, slideID string) (*model.Slide, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT slide_id, deck_id, title, content, speaker_notes, order_index, layout, creation_time
         FROM slides WHERE slide_id=$1`, slideID)
	sl, err := scanSlide(row.Scan)
	if err != nil {
		return nil, notFound(err)
	}
	return sl, nil
}

func (s *slides) Create(ctx context.Context, m *model.Slide) (*model.Slide, error) {
	id := m.SlideID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	lay, err := layoutJSON(m.Layout)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index)+1, 0) FROM slides WHERE deck_id=$1`, m.DeckID).Scan(&next); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO slides (slide_id, deck_id, title, content, speaker_notes, order_index, layout, creation_time)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		id, m.DeckID, m.Title, m.Content, m.SpeakerNotes, next, lay, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out := *m
	out.SlideID = id
	out.OrderIndex = next
	out.CreationTime = now
	return &out, nil
}

func (s *slides) Update(ctx context.Context, slideID string, upd model.SlideUpdate) (*model.Slide, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Content != nil {
		add("content", *upd.Content)
	}
	if upd.SpeakerNotes != nil {
		add("speaker_notes", *upd.SpeakerNotes)
	}
	if upd.Layout != nil {
		lay, err := layoutJSON(upd.Layout)
		if err != nil {
			return nil, err
		}
		add("layout", lay)
	}
	if len(sets) > 0 {
		args = append(args, slideID)
		res, err := s.db.ExecContext(ctx,
			fmt.Sprintf("UPDATE slides SET %s WHERE slide_id=$%d", strings.Join(sets, ", "), len(args)), args...)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, model.ErrNotFound
		}
	}
	return s.Get(ctx, slideID)
}

func (s *slides) Delete(ctx context.Context, slideID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var deckID string
	var idx int
	if err := tx.QueryRowContext(ctx,
		`SELECT deck_id, order_index FROM slides WHERE slide_id=$1`, slideID).Scan(&deckID, &idx); err != nil {
		return notFound(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM slides WHERE slide_id=$1`, slideID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE slides SET order_index = order_index - 1 WHERE deck_id=$1 AND order_index > $2`, deckID, idx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *slides) BatchUpdateOrder(ctx context.Context, deckID string, order []model.SlideOrder) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM slides WHERE deck_id=$1`, deckID).Scan(&count); err != nil {
		return err
	}
	if count != len(order) {
		return model.ErrInvalidOrder
	}
	seen := make(map[string]bool, len(order))
	for _, o := range order {
		if seen[o.SlideID] {
			return model.ErrInvalidOrder
		}
		seen[o.SlideID] = true
	}
	for _, o := range order {
		res, err := tx.ExecContext(ctx,
			`UPDATE slides SET order_index=$1 WHERE slide_id=$2 AND deck_id=$3`,
			o.OrderIndex, o.SlideID, deckID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n != 1 {
			return model.ErrInvalidOrder
		}
	}
	return tx.Commit()
}

// --- Versions ---

type versions struct{ db *sql.DB }

func (v *versions) Create(ctx context.Context, m *model.Version) (*model.Version, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	lay, err := layoutJSON(m.Layout)
	if err != nil {
		return nil, err
	}
	if _, err := v.db.ExecContext(ctx,
		`INSERT INTO slide_versions (version_id, slide_id, content, speaker_notes, layout, created_at)
         VALUES ($1,$2,$3,$4,$5,$6)`,
		id, m.SlideID, m.Content, m.SpeakerNotes, lay, now); err != nil {
		return nil, err
	}
	out := *m
	out.VersionID = id
	out.CreatedAt = now
	return &out, nil
}

func (v *versions) ListBySlide(ctx context.Context, slideID string) ([]*model.Version, error) {
	rows, err := v.db.QueryContext(ctx,
		`SELECT version_id, slide_id, content, speaker_notes, layout, created_at
         FROM slide_versions WHERE slide_id=$1 ORDER BY created_at DESC, seq DESC`, slideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Version
	for rows.Next() {
		ver, err := scanVersion(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ver)
	}
	return out, rows.Err()
}

func (v *versions) GetByID(ctx context.Context, versionID string) (*model.Version, error) {
	row := v.db.QueryRowContext(ctx,
		`SELECT version_id, slide_id, content, speaker_notes, layout, created_at
         FROM slide_versions WHERE version_id=$1`, versionID)
	ver, err := scanVersion(row.Scan)
	if err != nil {
		return nil, notFound(err)
	}
	return ver, nil
}

func scanVersion(scan func(...any) error) (*model.Version, error) {
	var ver model.Version
	var lay sql.NullString
	if err := scan(&ver.VersionID, &ver.SlideID, &ver.Content, &ver.SpeakerNotes, &lay, &ver.CreatedAt); err != nil {
		return nil, err
	}
	l, err := layoutFromJSON(lay)
	if err != nil {
		return nil, err
	}
	ver.Layout = l
	return &ver, nil
}
