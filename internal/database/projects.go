package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"video-editor/internal/logging"
	"video-editor/internal/timeline"
)

// queryer is implemented by *sql.DB and by a Batch.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withBatch runs fn inside a transaction and commits it when fn succeeds.
func (d *Database) withBatch(ctx context.Context, fn func(b *Batch) error) error {
	b, err := d.BeginBatch(ctx)
	if err != nil {
		return err
	}
	return d.EndBatch(b, fn(b))
}

// CreateProject creates an empty project.
func (d *Database) CreateProject(ctx context.Context, name string) (*Project, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("create_project", start, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		err = fmt.Errorf("%w: name is required", ErrInvalidProject)
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().Unix()
	p := &Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Unix(now, 0),
		UpdatedAt: time.Unix(now, 0),
	}
	_, err = d.db.ExecContext(ctx,
		"INSERT INTO projects (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		p.ID, p.Name, now, now)
	if err != nil {
		return nil, err
	}

	logging.Debug("Created project %s (%q)", p.ID, p.Name)
	return p, nil
}

// GetProject returns a project with its clip count.
func (d *Database) GetProject(ctx context.Context, id string) (*Project, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_project", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p *Project
	p, err = getProject(ctx, d.db, id)
	return p, err
}

func getProject(ctx context.Context, q queryer, id string) (*Project, error) {
	row := q.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.created_at, p.updated_at, COUNT(e.id)
		FROM projects p
		LEFT JOIN elements e ON e.project_id = p.id
		WHERE p.id = ?
		GROUP BY p.id
	`, id)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p, err
}

// ListProjects returns every project, most recently updated first.
func (d *Database) ListProjects(ctx context.Context) ([]Project, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_projects", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows *sql.Rows
	rows, err = d.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.created_at, p.updated_at, COUNT(e.id)
		FROM projects p
		LEFT JOIN elements e ON e.project_id = p.id
		GROUP BY p.id
		ORDER BY p.updated_at DESC, p.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		var p *Project
		if p, err = scanProject(rows); err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	err = rows.Err()
	return projects, err
}

// DeleteProject removes a project and all its clips.
func (d *Database) DeleteProject(ctx context.Context, id string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_project", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = d.withBatch(ctx, func(b *Batch) error {
		if _, err := b.ExecContext(ctx, "DELETE FROM elements WHERE project_id = ?", id); err != nil {
			return err
		}
		res, err := b.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil
	})
	return err
}

// ReplaceProject writes a whole project in one transaction: the project row
// is created or renamed and its clips are replaced by elements. Clips without
// an id get a new one. Nothing is written unless every clip is valid and no
// two clips on a lane overlap.
func (d *Database) ReplaceProject(ctx context.Context, p Project, elements []Element) (*Project, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("replace_project", start, err) }()

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		err = fmt.Errorf("%w: name is required", ErrInvalidProject)
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	seen := make(map[string]bool, len(elements))
	clips := make([]Element, len(elements))
	for i, el := range elements {
		if el.ID == "" {
			el.ID = uuid.NewString()
		}
		if seen[el.ID] {
			err = fmt.Errorf("%w: duplicate clip id %s", ErrInvalidElement, el.ID)
			return nil, err
		}
		seen[el.ID] = true
		el.ProjectID = p.ID
		el.StartTime = timeline.RoundTime(el.StartTime)
		el.EndTime = timeline.RoundTime(el.EndTime)
		if err = validateElement(el); err != nil {
			return nil, fmt.Errorf("clip %s: %w", el.ID, err)
		}
		clips[i] = el
	}
	if err = checkLanes(clips); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out *Project
	err = d.withBatch(ctx, func(b *Batch) error {
		now := time.Now()
		if _, err := b.ExecContext(ctx, `
			INSERT INTO projects (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at
		`, p.ID, p.Name, now.Unix(), now.Unix()); err != nil {
			return err
		}
		if _, err := b.ExecContext(ctx, "DELETE FROM elements WHERE project_id = ?", p.ID); err != nil {
			return err
		}
		for _, el := range clips {
			if err := insertElement(ctx, b, el); err != nil {
				return fmt.Errorf("clip %s: %w", el.ID, err)
			}
		}
		if err := setLastImport(ctx, b, now); err != nil {
			return err
		}
		var err error
		out, err = getProject(ctx, b, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Imported project %s (%q) with %d clips", out.ID, out.Name, len(clips))
	return out, nil
}

func touchProject(ctx context.Context, q queryer, id string) error {
	_, err := q.ExecContext(ctx, "UPDATE projects SET updated_at = ? WHERE id = ?", time.Now().Unix(), id)
	return err
}

func requireProject(ctx context.Context, q queryer, id string) error {
	var exists bool
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) > 0 FROM projects WHERE id = ?", id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	var created, updated int64
	if err := row.Scan(&p.ID, &p.Name, &created, &updated, &p.ElementCount); err != nil {
		return nil, err
	}
	p.CreatedAt = time.Unix(created, 0)
	p.UpdatedAt = time.Unix(updated, 0)
	return &p, nil
}
