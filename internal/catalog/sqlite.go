// Package catalog persists the collection hierarchy and manuscript records
// in SQLite.
package catalog

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cllg-project/TexTile-Backend/internal/errors"
	"github.com/cllg-project/TexTile-Backend/model"
)

// Store wraps the catalog database. The single-connection limit keeps
// modernc.org/sqlite happy under concurrent readers.
type Store struct {
	db *sql.DB
}

// New opens (and if needed initializes) the catalog at path. Use ":memory:"
// for tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &Store{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		identifier  TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		parent      TEXT,
		resource    INTEGER NOT NULL DEFAULT 0,
		nb_children INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_collections_parent ON collections(parent);

	CREATE TABLE IF NOT EXISTS manuscripts (
		identifier TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		language   TEXT,
		location   TEXT,
		start_year INTEGER,
		stop_year  INTEGER,
		ark        TEXT,
		manifest   TEXT,
		tokens     INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_manuscripts_language ON manuscripts(language);
	CREATE INDEX IF NOT EXISTS idx_manuscripts_years ON manuscripts(start_year, stop_year);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

// UpsertCollection inserts or replaces a collection row.
func (s *Store) UpsertCollection(ctx context.Context, coll model.Collection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (identifier, title, parent, resource, nb_children)
		VALUES (?, ?, NULLIF(?, ''), ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			title = excluded.title,
			parent = excluded.parent,
			resource = excluded.resource,
			nb_children = excluded.nb_children`,
		coll.Identifier, coll.Title, coll.Parent, coll.Resource, coll.NbChildren)
	if err != nil {
		return fmt.Errorf("failed to upsert collection '%s': %w", coll.Identifier, err)
	}
	return nil
}

func scanCollection(row interface{ Scan(...any) error }) (model.Collection, error) {
	var coll model.Collection
	var parent sql.NullString
	if err := row.Scan(&coll.Identifier, &coll.Title, &parent, &coll.Resource, &coll.NbChildren); err != nil {
		return model.Collection{}, err
	}
	coll.Parent = parent.String
	return coll, nil
}

// GetCollection fetches one collection by identifier.
func (s *Store) GetCollection(ctx context.Context, identifier string) (model.Collection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT identifier, title, parent, resource, nb_children
		FROM collections WHERE identifier = ?`, identifier)
	coll, err := scanCollection(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return model.Collection{}, errors.NewUnknownCollectionError(identifier)
	}
	if err != nil {
		return model.Collection{}, fmt.Errorf("failed to load collection '%s': %w", identifier, err)
	}
	return coll, nil
}

// orderClause maps a member sort mode onto SQL. Unknown values get catalog
// insertion order.
func orderClause(sortBy string) string {
	switch sortBy {
	case "title":
		return "ORDER BY title COLLATE NOCASE ASC"
	case "nb_children":
		return "ORDER BY nb_children DESC, identifier ASC"
	}
	return "ORDER BY rowid ASC"
}

func (s *Store) queryCollections(ctx context.Context, querySQL string, args ...any) ([]model.Collection, error) {
	rows, err := s.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	members := make([]model.Collection, 0)
	for rows.Next() {
		coll, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		members = append(members, coll)
	}
	return members, rows.Err()
}

// Children lists the direct members of a collection.
func (s *Store) Children(ctx context.Context, identifier, sortBy string) ([]model.Collection, error) {
	return s.queryCollections(ctx, `
		SELECT identifier, title, parent, resource, nb_children
		FROM collections WHERE parent = ? `+orderClause(sortBy), identifier)
}

// TopLevel lists collections without a parent, optionally filtered by a
// case-insensitive title prefix.
func (s *Store) TopLevel(ctx context.Context, titlePrefix, sortBy string) ([]model.Collection, error) {
	if titlePrefix == "" {
		return s.queryCollections(ctx, `
			SELECT identifier, title, parent, resource, nb_children
			FROM collections WHERE parent IS NULL `+orderClause(sortBy))
	}
	pattern := likeEscape(titlePrefix) + "%"
	return s.queryCollections(ctx, `
		SELECT identifier, title, parent, resource, nb_children
		FROM collections WHERE parent IS NULL AND title LIKE ? ESCAPE '\' `+orderClause(sortBy), pattern)
}

// UpsertManuscript inserts or replaces a manuscript record.
func (s *Store) UpsertManuscript(ctx context.Context, ms model.Manuscript) error {
	var start, stop sql.NullInt64
	if ms.Dates != nil {
		start = sql.NullInt64{Int64: int64(ms.Dates.Start), Valid: true}
		stop = sql.NullInt64{Int64: int64(ms.Dates.Stop), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO manuscripts (identifier, title, language, location, start_year, stop_year, ark, manifest, tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			title = excluded.title,
			language = excluded.language,
			location = excluded.location,
			start_year = excluded.start_year,
			stop_year = excluded.stop_year,
			ark = excluded.ark,
			manifest = excluded.manifest,
			tokens = excluded.tokens`,
		ms.Identifier, ms.Title, ms.Language, ms.Location, start, stop, ms.Ark, ms.Manifest, ms.Tokens)
	if err != nil {
		return fmt.Errorf("failed to upsert manuscript '%s': %w", ms.Identifier, err)
	}
	return nil
}

func scanManuscript(row interface{ Scan(...any) error }) (model.Manuscript, error) {
	var ms model.Manuscript
	var language, location, ark, manifest sql.NullString
	var start, stop sql.NullInt64
	if err := row.Scan(&ms.Identifier, &ms.Title, &language, &location, &start, &stop, &ark, &manifest, &ms.Tokens); err != nil {
		return model.Manuscript{}, err
	}
	ms.Language = language.String
	ms.Location = location.String
	ms.Ark = ark.String
	ms.Manifest = manifest.String
	if start.Valid && stop.Valid {
		ms.Dates = &model.YearRange{Start: int(start.Int64), Stop: int(stop.Int64)}
	}
	return ms, nil
}

// GetManuscript fetches one manuscript record by identifier.
func (s *Store) GetManuscript(ctx context.Context, identifier string) (model.Manuscript, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT identifier, title, language, location, start_year, stop_year, ark, manifest, tokens
		FROM manuscripts WHERE identifier = ?`, identifier)
	ms, err := scanManuscript(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return model.Manuscript{}, errors.NewUnknownDocumentError(identifier)
	}
	if err != nil {
		return model.Manuscript{}, fmt.Errorf("failed to load manuscript '%s': %w", identifier, err)
	}
	return ms, nil
}

// Count returns the number of catalogued manuscripts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM manuscripts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count manuscripts: %w", err)
	}
	return count, nil
}

// Filter narrows a manuscript listing. Zero values mean "no constraint";
// Dates matches by overlap.
type Filter struct {
	Query    string
	Language string
	Location string
	Dates    *model.YearRange

	// StartYear/StopYear bound the dating independently: start_year >= StartYear
	// and stop_year <= StopYear, or equality when the Exact flag is set.
	StartYear  *int
	StopYear   *int
	ExactStart bool
	ExactStop  bool

	Limit  int
	Offset int
}

// Search lists manuscripts matching the filter, ordered by identifier.
func (s *Store) Search(ctx context.Context, filter Filter) ([]model.Manuscript, error) {
	querySQL, args := buildFilterQuery(`
		SELECT identifier, title, language, location, start_year, stop_year, ark, manifest, tokens
		FROM manuscripts`, filter)
	querySQL += " ORDER BY identifier ASC"
	if filter.Limit > 0 {
		querySQL += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query manuscripts: %w", err)
	}
	defer rows.Close()

	manuscripts := make([]model.Manuscript, 0)
	for rows.Next() {
		ms, err := scanManuscript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan manuscript: %w", err)
		}
		manuscripts = append(manuscripts, ms)
	}
	return manuscripts, rows.Err()
}

// MatchingIdentifiers returns the set of manuscript identifiers satisfying
// the filter, for restricting full-text results.
func (s *Store) MatchingIdentifiers(ctx context.Context, filter Filter) (map[string]bool, error) {
	querySQL, args := buildFilterQuery(`SELECT identifier FROM manuscripts`, filter)

	rows, err := s.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query manuscript identifiers: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan identifier: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func buildFilterQuery(base string, filter Filter) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 6)

	if filter.Query != "" {
		pattern := "%" + likeEscape(filter.Query) + "%"
		clauses = append(clauses, `(title LIKE ? ESCAPE '\' OR location LIKE ? ESCAPE '\' OR language LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Language != "" {
		clauses = append(clauses, "language = ? COLLATE NOCASE")
		args = append(args, filter.Language)
	}
	if filter.Location != "" {
		clauses = append(clauses, `location LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscape(filter.Location)+"%")
	}
	if filter.Dates != nil {
		clauses = append(clauses, "start_year IS NOT NULL AND start_year <= ? AND stop_year >= ?")
		args = append(args, filter.Dates.Stop, filter.Dates.Start)
	}
	if filter.StartYear != nil {
		if filter.ExactStart {
			clauses = append(clauses, "start_year = ?")
		} else {
			clauses = append(clauses, "start_year >= ?")
		}
		args = append(args, *filter.StartYear)
	}
	if filter.StopYear != nil {
		if filter.ExactStop {
			clauses = append(clauses, "stop_year = ?")
		} else {
			clauses = append(clauses, "stop_year <= ?")
		}
		args = append(args, *filter.StopYear)
	}

	if len(clauses) > 0 {
		base += " WHERE " + strings.Join(clauses, " AND ")
	}
	return base, args
}

// likeEscape guards user input used inside LIKE patterns.
func likeEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
