package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"video-editor/internal/logging"
	"video-editor/internal/mediatypes"
	"video-editor/internal/metrics"
	"video-editor/internal/timeline"
)

const elementColumns = `id, project_id, lane_id, kind, start_time, end_time, content, media_url,
	volume, fade_in, fade_out, created_at`

// AddElement places a new clip on its lane. The requested start time is a
// candidate: when it collides with existing clips the clip is pushed to the
// first free position after them. A missing kind is inferred from the media
// URL's extension.
func (d *Database) AddElement(ctx context.Context, projectID string, ne NewElement) (*Element, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("add_element", start, err) }()

	if ne.Kind == "" && ne.MediaURL != "" {
		if kind, ok := mediatypes.KindFromURL(ne.MediaURL); ok {
			ne.Kind = kind
		}
	}

	el := Element{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		LaneID:    ne.LaneID,
		Kind:      ne.Kind,
		StartTime: timeline.RoundTime(max(ne.StartTime, 0)),
		EndTime:   timeline.RoundTime(max(ne.StartTime, 0) + ne.Duration),
		Content:   ne.Content,
		MediaURL:  ne.MediaURL,
		Volume:    1,
		FadeIn:    ne.FadeIn,
		FadeOut:   ne.FadeOut,
		CreatedAt: time.Unix(time.Now().Unix(), 0),
	}
	if ne.Volume != nil {
		el.Volume = *ne.Volume
	}
	if err = validateElement(el); err != nil {
		return nil, err
	}
	if ne.Duration < timeline.MinDuration-1e-9 {
		err = fmt.Errorf("%w: duration %v is below the minimum of %v", ErrInvalidBounds, ne.Duration, timeline.MinDuration)
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = d.withBatch(ctx, func(b *Batch) error {
		if err := requireProject(ctx, b, projectID); err != nil {
			return err
		}
		elements, err := listElements(ctx, b, projectID)
		if err != nil {
			return err
		}

		lane := timeline.LaneElements(TimelineElements(elements), el.LaneID)
		duration := el.Duration()
		placed := timeline.NewPositioner(lane).CalculateValidDropTime(el.StartTime, duration, "")
		if placed != el.StartTime {
			metrics.PositioningAdjusted.WithLabelValues("add").Inc()
			logging.Debug("Clip placed at %.3fs instead of requested %.3fs on %s", placed, el.StartTime, el.LaneID)
		}
		metrics.PositioningRequestsTotal.WithLabelValues("add").Inc()
		el.StartTime = placed
		el.EndTime = timeline.RoundTime(placed + duration)

		if err := insertElement(ctx, b, el); err != nil {
			return err
		}
		return touchProject(ctx, b, projectID)
	})
	if err != nil {
		return nil, err
	}
	return &el, nil
}

// GetElement returns one clip of a project.
func (d *Database) GetElement(ctx context.Context, projectID, id string) (*Element, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_element", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var el *Element
	el, err = getElement(ctx, d.db, projectID, id)
	return el, err
}

// ListElements returns every clip of a project ordered by lane and start time.
func (d *Database) ListElements(ctx context.Context, projectID string) ([]Element, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_elements", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err = requireProject(ctx, d.db, projectID); err != nil {
		return nil, err
	}
	var elements []Element
	elements, err = listElements(ctx, d.db, projectID)
	return elements, err
}

// UpdateElement writes new bounds for one clip.
func (d *Database) UpdateElement(ctx context.Context, projectID, id string, b timeline.Bounds) error {
	start := time.Now()
	err := d.updateElements(ctx, projectID, []timeline.ElementUpdate{{ID: id, Updates: b}})
	recordQuery("update_element", start, err)
	return err
}

// UpdateElements writes new bounds for several clips in one transaction. The
// write is rejected as a whole when any lane would end up with overlapping
// clips.
func (d *Database) UpdateElements(ctx context.Context, projectID string, updates []timeline.ElementUpdate) error {
	start := time.Now()
	err := d.updateElements(ctx, projectID, updates)
	recordQuery("update_elements", start, err)
	return err
}

func (d *Database) updateElements(ctx context.Context, projectID string, updates []timeline.ElementUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	for _, u := range updates {
		if !validBounds(u.Updates.StartTime, u.Updates.EndTime) {
			return fmt.Errorf("%w: %s [%v, %v)", ErrInvalidBounds, u.ID, u.Updates.StartTime, u.Updates.EndTime)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return d.withBatch(ctx, func(b *Batch) error {
		elements, err := listElements(ctx, b, projectID)
		if err != nil {
			return err
		}
		index := make(map[string]int, len(elements))
		for i, el := range elements {
			index[el.ID] = i
		}
		for _, u := range updates {
			i, ok := index[u.ID]
			if !ok {
				return fmt.Errorf("clip %s: %w", u.ID, ErrNotFound)
			}
			elements[i].StartTime = timeline.RoundTime(u.Updates.StartTime)
			elements[i].EndTime = timeline.RoundTime(u.Updates.EndTime)
		}
		if err := checkLanes(elements); err != nil {
			metrics.DBInvariantViolations.Inc()
			return err
		}

		stmt, err := b.PrepareContext(ctx, "UPDATE elements SET start_time = ?, end_time = ? WHERE id = ? AND project_id = ?")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, u := range updates {
			el := elements[index[u.ID]]
			if _, err := stmt.ExecContext(ctx, el.StartTime, el.EndTime, el.ID, projectID); err != nil {
				return fmt.Errorf("clip %s: %w", el.ID, err)
			}
		}
		return touchProject(ctx, b, projectID)
	})
}

// PatchElement applies partial changes to a clip. A lane change must keep
// the clip on a lane that accepts its kind, and the result must not overlap
// anything on the target lane.
func (d *Database) PatchElement(ctx context.Context, projectID, id string, patch ElementPatch) (*Element, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_element", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out Element
	err = d.withBatch(ctx, func(b *Batch) error {
		elements, err := listElements(ctx, b, projectID)
		if err != nil {
			return err
		}
		i := -1
		for j := range elements {
			if elements[j].ID == id {
				i = j
				break
			}
		}
		if i < 0 {
			return fmt.Errorf("clip %s: %w", id, ErrNotFound)
		}

		el := &elements[i]
		applyPatch(el, patch)
		if err := validateElement(*el); err != nil {
			return err
		}
		if el.Duration() < timeline.MinDuration-1e-9 {
			return fmt.Errorf("%w: duration %v is below the minimum of %v", ErrInvalidBounds, el.Duration(), timeline.MinDuration)
		}
		if err := checkLanes(elements); err != nil {
			return err
		}

		_, err = b.ExecContext(ctx, `
			UPDATE elements SET lane_id = ?, start_time = ?, end_time = ?, content = ?, media_url = ?,
				volume = ?, fade_in = ?, fade_out = ?
			WHERE id = ? AND project_id = ?
		`, el.LaneID, el.StartTime, el.EndTime, el.Content, el.MediaURL,
			el.Volume, el.FadeIn, el.FadeOut, el.ID, projectID)
		if err != nil {
			return err
		}
		out = *el
		return touchProject(ctx, b, projectID)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func applyPatch(el *Element, p ElementPatch) {
	if p.LaneID != nil {
		el.LaneID = *p.LaneID
	}
	if p.StartTime != nil {
		el.StartTime = timeline.RoundTime(*p.StartTime)
	}
	if p.EndTime != nil {
		el.EndTime = timeline.RoundTime(*p.EndTime)
	}
	if p.Content != nil {
		el.Content = *p.Content
	}
	if p.MediaURL != nil {
		el.MediaURL = *p.MediaURL
	}
	if p.Volume != nil {
		el.Volume = *p.Volume
	}
	if p.FadeIn != nil {
		el.FadeIn = *p.FadeIn
	}
	if p.FadeOut != nil {
		el.FadeOut = *p.FadeOut
	}
}

// DeleteElement removes a clip. Neighbouring clips are left where they are.
func (d *Database) DeleteElement(ctx context.Context, projectID, id string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_element", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = d.withBatch(ctx, func(b *Batch) error {
		res, err := b.ExecContext(ctx, "DELETE FROM elements WHERE id = ? AND project_id = ?", id, projectID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("clip %s: %w", id, ErrNotFound)
		}
		return touchProject(ctx, b, projectID)
	})
	return err
}

// SplitElement cuts a clip in two at time at. The left part keeps the id and
// the fade-in; the right part gets a new id and the fade-out.
func (d *Database) SplitElement(ctx context.Context, projectID, id string, at float64) (left, right *Element, err error) {
	start := time.Now()
	defer func() { recordQuery("split_element", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = d.withBatch(ctx, func(b *Batch) error {
		el, err := getElement(ctx, b, projectID, id)
		if err != nil {
			return err
		}
		l, r, err := timeline.Split(el.Timeline(), at, uuid.NewString())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidBounds, err)
		}

		lp := *el
		lp.EndTime = l.EndTime
		lp.FadeOut = 0
		rp := *el
		rp.ID = r.ID
		rp.StartTime = r.StartTime
		rp.FadeIn = 0
		rp.CreatedAt = time.Unix(time.Now().Unix(), 0)

		if _, err := b.ExecContext(ctx,
			"UPDATE elements SET end_time = ?, fade_out = ? WHERE id = ? AND project_id = ?",
			lp.EndTime, lp.FadeOut, lp.ID, projectID); err != nil {
			return err
		}
		if err := insertElement(ctx, b, rp); err != nil {
			return err
		}
		left, right = &lp, &rp
		return touchProject(ctx, b, projectID)
	})
	if err != nil {
		return nil, nil, err
	}
	logging.Debug("Split clip %s at %.3fs into %s and %s", id, at, left.ID, right.ID)
	return left, right, nil
}

func insertElement(ctx context.Context, q queryer, el Element) error {
	_, err := q.ExecContext(ctx, `INSERT INTO elements (`+elementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		el.ID, el.ProjectID, el.LaneID, string(el.Kind), el.StartTime, el.EndTime,
		el.Content, el.MediaURL, el.Volume, el.FadeIn, el.FadeOut, el.CreatedAt.Unix())
	return err
}

func getElement(ctx context.Context, q queryer, projectID, id string) (*Element, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+elementColumns+" FROM elements WHERE id = ? AND project_id = ?", id, projectID)
	el, err := scanElement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("clip %s: %w", id, ErrNotFound)
	}
	return el, err
}

func listElements(ctx context.Context, q queryer, projectID string) ([]Element, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+elementColumns+" FROM elements WHERE project_id = ? ORDER BY lane_id, start_time, id",
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	elements := []Element{}
	for rows.Next() {
		el, err := scanElement(rows)
		if err != nil {
			return nil, err
		}
		elements = append(elements, *el)
	}
	return elements, rows.Err()
}

func scanElement(row rowScanner) (*Element, error) {
	var el Element
	var kind string
	var created int64
	err := row.Scan(&el.ID, &el.ProjectID, &el.LaneID, &kind, &el.StartTime, &el.EndTime,
		&el.Content, &el.MediaURL, &el.Volume, &el.FadeIn, &el.FadeOut, &created)
	if err != nil {
		return nil, err
	}
	el.Kind = mediatypes.Kind(kind)
	el.CreatedAt = time.Unix(created, 0)
	return &el, nil
}
