package database

import (
	"context"
	"time"
)

// GetStats returns aggregate counts across every project.
func (d *Database) GetStats(ctx context.Context) (Stats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_stats", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := Stats{ElementsByKind: make(map[string]int)}

	if err = d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&stats.TotalProjects); err != nil {
		return stats, err
	}
	if err = d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM (SELECT DISTINCT project_id, lane_id FROM elements)").Scan(&stats.TotalLanes); err != nil {
		return stats, err
	}
	// A project's timeline runs until its last clip ends.
	if err = d.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(last_end), 0)
		FROM (SELECT MAX(end_time) AS last_end FROM elements GROUP BY project_id)
	`).Scan(&stats.TimelineSeconds); err != nil {
		return stats, err
	}

	rows, err := d.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM elements GROUP BY kind")
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int
		if err = rows.Scan(&kind, &n); err != nil {
			return stats, err
		}
		stats.ElementsByKind[kind] = n
		stats.TotalElements += n
	}
	err = rows.Err()
	return stats, err
}
