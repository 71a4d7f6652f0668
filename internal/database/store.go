package database

import (
	"context"
	"errors"
	"fmt"

	"video-editor/internal/timeline"
)

// ProjectStore exposes one project's clips as a timeline.Store so a drag
// controller can read and write them directly.
type ProjectStore struct {
	db        *Database
	ctx       context.Context
	projectID string
}

// Store returns a timeline.Store bound to a project. ctx bounds every query
// the store issues; it is usually the lifetime of the editing connection.
func (d *Database) Store(ctx context.Context, projectID string) *ProjectStore {
	return &ProjectStore{db: d, ctx: ctx, projectID: projectID}
}

// Elements returns the current clips of the project.
func (s *ProjectStore) Elements() ([]timeline.Element, error) {
	elements, err := s.db.ListElements(s.ctx, s.projectID)
	if err != nil {
		return nil, err
	}
	return TimelineElements(elements), nil
}

// UpdateElement writes new bounds for one clip.
func (s *ProjectStore) UpdateElement(id string, b timeline.Bounds) error {
	return engineError(s.db.UpdateElement(s.ctx, s.projectID, id, b))
}

// UpdateElements writes new bounds for several clips atomically.
func (s *ProjectStore) UpdateElements(updates []timeline.ElementUpdate) error {
	return engineError(s.db.UpdateElements(s.ctx, s.projectID, updates))
}

// engineError adds the matching engine sentinel so callers of the
// timeline.Store interface can test for it without knowing the store.
func engineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrOverlap):
		return fmt.Errorf("%w: %w", timeline.ErrOverlap, err)
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("%w: %w", timeline.ErrElementNotFound, err)
	}
	return err
}
