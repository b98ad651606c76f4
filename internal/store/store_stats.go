package store

import (
	"context"
	"database/sql"
)

// CountEntry is a generic label/count pair used by the stats queries.
type CountEntry struct {
	Label string
	Count int
}

// Stats aggregates the catalog for the stats command.
type Stats struct {
	TotalRolls    int
	TotalFrames   int
	TotalCameras  int
	TotalLenses   int
	TotalStocks   int
	RollsByStatus []CountEntry
	RollsByFormat []CountEntry
	RollsByType   []CountEntry
	RollsByMonth  []CountEntry
	TopStocks     []CountEntry
	TopCameras    []CountEntry
	TopLenses     []CountEntry
	TopLocations  []CountEntry
	DevTypeSplit  []CountEntry
	TotalDevCost  float64
	LoadedCameras []LoadedCamera
}

// LoadedCamera describes a camera currently holding an active roll.
type LoadedCamera struct {
	CameraName string
	RollID     int64
	StockName  string
	Status     Status
}

// CollectStats runs the aggregate queries for one user.
func (s *Store) CollectStats(ctx context.Context, userID int64) (*Stats, error) {
	ctx = ensureContext(ctx)
	stats := &Stats{}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(1) FROM rolls WHERE user_id = ?", &stats.TotalRolls},
		{"SELECT COUNT(1) FROM frames f JOIN rolls r ON r.id = f.roll_id WHERE r.user_id = ?", &stats.TotalFrames},
		{"SELECT COUNT(1) FROM cameras WHERE user_id = ?", &stats.TotalCameras},
		{"SELECT COUNT(1) FROM lenses WHERE user_id = ?", &stats.TotalLenses},
		{"SELECT COUNT(1) FROM film_stocks WHERE user_id = ?", &stats.TotalStocks},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, userID).Scan(c.dest); err != nil {
			return nil, classify("collect stats: count", err)
		}
	}

	groups := []struct {
		query string
		dest  *[]CountEntry
	}{
		{`SELECT status, COUNT(1) FROM rolls WHERE user_id = ? GROUP BY status ORDER BY COUNT(1) DESC`, &stats.RollsByStatus},
		{`SELECT COALESCE(fs.format, 'unknown'), COUNT(1) FROM rolls r JOIN film_stocks fs ON fs.id = r.film_stock_id
			WHERE r.user_id = ? GROUP BY fs.format ORDER BY COUNT(1) DESC`, &stats.RollsByFormat},
		{`SELECT COALESCE(fs.type, 'unknown'), COUNT(1) FROM rolls r JOIN film_stocks fs ON fs.id = r.film_stock_id
			WHERE r.user_id = ? GROUP BY fs.type ORDER BY COUNT(1) DESC`, &stats.RollsByType},
		{`SELECT substr(created_at, 1, 7), COUNT(1) FROM rolls WHERE user_id = ?
			GROUP BY substr(created_at, 1, 7) ORDER BY substr(created_at, 1, 7) DESC LIMIT 12`, &stats.RollsByMonth},
		{`SELECT COALESCE(fs.brand, '') || CASE WHEN fs.brand IS NULL OR fs.brand = '' THEN '' ELSE ' ' END || fs.name, COUNT(1)
			FROM rolls r JOIN film_stocks fs ON fs.id = r.film_stock_id
			WHERE r.user_id = ? GROUP BY fs.id ORDER BY COUNT(1) DESC LIMIT 5`, &stats.TopStocks},
		{`SELECT c.name, COUNT(1) FROM rolls r JOIN cameras c ON c.id = r.camera_id
			WHERE r.user_id = ? GROUP BY c.id ORDER BY COUNT(1) DESC LIMIT 5`, &stats.TopCameras},
		{`SELECT l.name, COUNT(1) FROM rolls r JOIN lenses l ON l.id = r.lens_id
			WHERE r.user_id = ? GROUP BY l.id ORDER BY COUNT(1) DESC LIMIT 5`, &stats.TopLenses},
		{`SELECT location, COUNT(1) FROM rolls WHERE user_id = ? AND location IS NOT NULL AND location != ''
			GROUP BY location ORDER BY COUNT(1) DESC LIMIT 5`, &stats.TopLocations},
		{`SELECT rd.dev_type, COUNT(1) FROM roll_development rd JOIN rolls r ON r.id = rd.roll_id
			WHERE r.user_id = ? GROUP BY rd.dev_type ORDER BY COUNT(1) DESC`, &stats.DevTypeSplit},
	}
	for _, g := range groups {
		entries, err := s.countQuery(ctx, g.query, userID)
		if err != nil {
			return nil, err
		}
		*g.dest = entries
	}

	var totalCost sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(rd.cost_amount) FROM roll_development rd
		JOIN rolls r ON r.id = rd.roll_id WHERE r.user_id = ?`, userID).Scan(&totalCost)
	if err != nil {
		return nil, classify("collect stats: dev cost", err)
	}
	if totalCost.Valid {
		stats.TotalDevCost = totalCost.Float64
	}

	loaded, err := s.loadedCameras(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.LoadedCameras = loaded

	return stats, nil
}

func (s *Store) countQuery(ctx context.Context, query string, args ...any) ([]CountEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("collect stats: group", err)
	}
	defer rows.Close()

	var entries []CountEntry
	for rows.Next() {
		var entry CountEntry
		if err := rows.Scan(&entry.Label, &entry.Count); err != nil {
			return nil, classify("collect stats: scan group", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("collect stats: iterate group", err)
	}
	return entries, nil
}

func (s *Store) loadedCameras(ctx context.Context, userID int64) ([]LoadedCamera, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, r.id,
		       COALESCE(fs.brand, '') || CASE WHEN fs.brand IS NULL OR fs.brand = '' THEN '' ELSE ' ' END || fs.name,
		       r.status
		FROM rolls r
		JOIN cameras c ON c.id = r.camera_id
		JOIN film_stocks fs ON fs.id = r.film_stock_id
		WHERE r.user_id = ? AND r.status IN (?, ?)
		ORDER BY c.name ASC`, userID, string(StatusLoaded), string(StatusShooting))
	if err != nil {
		return nil, classify("collect stats: loaded cameras", err)
	}
	defer rows.Close()

	var loaded []LoadedCamera
	for rows.Next() {
		var (
			entry     LoadedCamera
			statusStr string
		)
		if err := rows.Scan(&entry.CameraName, &entry.RollID, &entry.StockName, &statusStr); err != nil {
			return nil, classify("collect stats: scan loaded camera", err)
		}
		entry.Status = Status(statusStr)
		loaded = append(loaded, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("collect stats: iterate loaded cameras", err)
	}
	return loaded, nil
}
