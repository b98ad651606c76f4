package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const rollColumns = "id, user_id, film_stock_id, camera_id, lens_id, status, loaded_date, finished_date, sent_for_dev_date, developed_date, scan_date, scan_notes, title, push_pull_stops, location, notes, created_at"

func scanRoll(scanner interface{ Scan(dest ...any) error }) (*Roll, error) {
	var (
		id            int64
		userID        int64
		filmStockID   int64
		cameraID      sql.NullInt64
		lensID        sql.NullInt64
		statusStr     string
		loadedRaw     sql.NullString
		finishedRaw   sql.NullString
		sentForDevRaw sql.NullString
		developedRaw  sql.NullString
		scanRaw       sql.NullString
		scanNotes     sql.NullString
		title         sql.NullString
		pushPull      sql.NullFloat64
		location      sql.NullString
		notes         sql.NullString
		createdRaw    string
	)
	if err := scanner.Scan(&id, &userID, &filmStockID, &cameraID, &lensID, &statusStr,
		&loadedRaw, &finishedRaw, &sentForDevRaw, &developedRaw, &scanRaw,
		&scanNotes, &title, &pushPull, &location, &notes, &createdRaw); err != nil {
		return nil, err
	}

	roll := &Roll{
		ID:          id,
		UserID:      userID,
		FilmStockID: filmStockID,
		Status:      Status(statusStr),
		ScanNotes:   scanNotes.String,
		Title:       title.String,
		Location:    location.String,
		Notes:       notes.String,
	}
	if cameraID.Valid {
		v := cameraID.Int64
		roll.CameraID = &v
	}
	if lensID.Valid {
		v := lensID.Int64
		roll.LensID = &v
	}
	if pushPull.Valid {
		v := pushPull.Float64
		roll.PushPullStops = &v
	}
	roll.LoadedDate, _ = parseDateString(loadedRaw.String)
	roll.FinishedDate, _ = parseDateString(finishedRaw.String)
	roll.SentForDevDate, _ = parseDateString(sentForDevRaw.String)
	roll.DevelopedDate, _ = parseDateString(developedRaw.String)
	roll.ScanDate, _ = parseDateString(scanRaw.String)
	if created, err := parseTimeString(createdRaw); err == nil {
		roll.CreatedAt = created
	}
	return roll, nil
}

// CreateRoll inserts a fresh roll, pre-populates its frame set from the
// referenced film stock's frames_per_roll (numbered 1..N, seeded with
// the roll's lens), and decrements the stock's quantity_on_hand floored
// at 0. The three writes commit as one unit.
func (s *Store) CreateRoll(ctx context.Context, roll *Roll) (*Roll, error) {
	if roll == nil {
		return nil, wrap(ErrValidation, "create roll: nil roll", nil)
	}
	if roll.FilmStockID == 0 {
		return nil, wrap(ErrValidation, "create roll: film stock required", nil)
	}

	stock, err := s.GetFilmStock(ctx, roll.FilmStockID)
	if err != nil {
		return nil, err
	}

	var rollID int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO rolls (user_id, film_stock_id, camera_id, lens_id, status, title, push_pull_stops, location, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			roll.UserID,
			roll.FilmStockID,
			nullableInt64(roll.CameraID),
			nullableInt64(roll.LensID),
			string(StatusFresh),
			nullableString(roll.Title),
			nullableFloat64(roll.PushPullStops),
			nullableString(roll.Location),
			nullableString(roll.Notes),
			timestamp(time.Now()),
		)
		if err != nil {
			return err
		}
		rollID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		if err := insertFrames(ctx, tx, rollID, stock.FramesPerRoll, roll.LensID); err != nil {
			return err
		}

		return s.execDecrement(ctx, tx, roll.FilmStockID)
	})
	if err != nil {
		return nil, classify("create roll", err)
	}
	return s.GetRoll(ctx, rollID)
}

func insertFrames(ctx context.Context, tx *sql.Tx, rollID int64, count int, lensID *int64) error {
	if count <= 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO frames (roll_id, frame_number, lens_id) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for number := 1; number <= count; number++ {
		if _, err := stmt.ExecContext(ctx, rollID, number, nullableInt64(lensID)); err != nil {
			return err
		}
	}
	return nil
}

// GetRoll fetches one roll by id.
func (s *Store) GetRoll(ctx context.Context, id int64) (*Roll, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+rollColumns+" FROM rolls WHERE id = ?", id)
	roll, err := scanRoll(row)
	if err != nil {
		return nil, classify(fmt.Sprintf("get roll %d", id), err)
	}
	return roll, nil
}

// ListRolls returns a user's rolls, optionally filtered by status,
// newest first.
func (s *Store) ListRolls(ctx context.Context, userID int64, statuses ...Status) ([]*Roll, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + rollColumns + " FROM rolls WHERE user_id = ?"
	args := []any{userID}
	if len(statuses) > 0 {
		query += " AND status IN (" + makePlaceholders(len(statuses)) + ")"
		for _, status := range statuses {
			args = append(args, string(status))
		}
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list rolls", err)
	}
	defer rows.Close()

	var rolls []*Roll
	for rows.Next() {
		roll, err := scanRoll(rows)
		if err != nil {
			return nil, classify("scan roll", err)
		}
		rolls = append(rolls, roll)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate rolls", err)
	}
	return rolls, nil
}

// UpdateRoll persists the full mutable field set of a roll, including
// status and lifecycle dates. Lifecycle rules are the engine's concern;
// the store writes what it is given.
func (s *Store) UpdateRoll(ctx context.Context, roll *Roll) error {
	if roll == nil || roll.ID == 0 {
		return wrap(ErrValidation, "update roll: missing id", nil)
	}
	if _, ok := ParseStatus(string(roll.Status)); !ok {
		return wrap(ErrValidation, fmt.Sprintf("update roll: unknown status %q", roll.Status), nil)
	}
	res, err := s.execWithRetry(ctx, `
		UPDATE rolls
		SET camera_id = ?, lens_id = ?, status = ?, loaded_date = ?, finished_date = ?,
		    sent_for_dev_date = ?, developed_date = ?, scan_date = ?, scan_notes = ?,
		    title = ?, push_pull_stops = ?, location = ?, notes = ?
		WHERE id = ?`,
		nullableInt64(roll.CameraID),
		nullableInt64(roll.LensID),
		string(roll.Status),
		nullableDate(roll.LoadedDate),
		nullableDate(roll.FinishedDate),
		nullableDate(roll.SentForDevDate),
		nullableDate(roll.DevelopedDate),
		nullableDate(roll.ScanDate),
		nullableString(roll.ScanNotes),
		nullableString(roll.Title),
		nullableFloat64(roll.PushPullStops),
		nullableString(roll.Location),
		nullableString(roll.Notes),
		roll.ID,
	)
	if err != nil {
		return classify("update roll", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("update roll: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("update roll %d", roll.ID), nil)
	}
	return nil
}

// DeleteRoll removes a roll and its frames in one transaction. The
// development record and its steps cascade via the schema's referential
// rules. Stock quantity is not restored.
func (s *Store) DeleteRoll(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM frames WHERE roll_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM rolls WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return classify(fmt.Sprintf("delete roll %d", id), err)
	}
	return nil
}

// RollSummary is the joined presentation row used by list commands.
type RollSummary struct {
	Roll       *Roll
	StockName  string
	CameraName string
	LensName   string
}

// ListRollSummaries returns rolls joined with stock and equipment names
// for presentation, optionally filtered by status.
func (s *Store) ListRollSummaries(ctx context.Context, userID int64, statuses ...Status) ([]RollSummary, error) {
	ctx = ensureContext(ctx)
	cols := make([]string, 0, 4)
	for _, col := range strings.Split(rollColumns, ", ") {
		cols = append(cols, "r."+col)
	}
	query := `
		SELECT ` + strings.Join(cols, ", ") + `,
		       COALESCE(fs.brand, '') || CASE WHEN fs.brand IS NULL OR fs.brand = '' THEN '' ELSE ' ' END || fs.name,
		       COALESCE(c.name, ''),
		       COALESCE(l.name, '')
		FROM rolls r
		JOIN film_stocks fs ON fs.id = r.film_stock_id
		LEFT JOIN cameras c ON c.id = r.camera_id
		LEFT JOIN lenses l ON l.id = r.lens_id
		WHERE r.user_id = ?`
	args := []any{userID}
	if len(statuses) > 0 {
		query += " AND r.status IN (" + makePlaceholders(len(statuses)) + ")"
		for _, status := range statuses {
			args = append(args, string(status))
		}
	}
	query += " ORDER BY r.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list roll summaries", err)
	}
	defer rows.Close()

	var summaries []RollSummary
	for rows.Next() {
		summary, err := scanRollSummary(rows)
		if err != nil {
			return nil, classify("scan roll summary", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate roll summaries", err)
	}
	return summaries, nil
}

func scanRollSummary(rows *sql.Rows) (RollSummary, error) {
	var (
		id            int64
		userID        int64
		filmStockID   int64
		cameraID      sql.NullInt64
		lensID        sql.NullInt64
		statusStr     string
		loadedRaw     sql.NullString
		finishedRaw   sql.NullString
		sentForDevRaw sql.NullString
		developedRaw  sql.NullString
		scanRaw       sql.NullString
		scanNotes     sql.NullString
		title         sql.NullString
		pushPull      sql.NullFloat64
		location      sql.NullString
		notes         sql.NullString
		createdRaw    string
		stockName     string
		cameraName    string
		lensName      string
	)
	if err := rows.Scan(&id, &userID, &filmStockID, &cameraID, &lensID, &statusStr,
		&loadedRaw, &finishedRaw, &sentForDevRaw, &developedRaw, &scanRaw,
		&scanNotes, &title, &pushPull, &location, &notes, &createdRaw,
		&stockName, &cameraName, &lensName); err != nil {
		return RollSummary{}, err
	}

	roll := &Roll{
		ID:          id,
		UserID:      userID,
		FilmStockID: filmStockID,
		Status:      Status(statusStr),
		ScanNotes:   scanNotes.String,
		Title:       title.String,
		Location:    location.String,
		Notes:       notes.String,
	}
	if cameraID.Valid {
		v := cameraID.Int64
		roll.CameraID = &v
	}
	if lensID.Valid {
		v := lensID.Int64
		roll.LensID = &v
	}
	if pushPull.Valid {
		v := pushPull.Float64
		roll.PushPullStops = &v
	}
	roll.LoadedDate, _ = parseDateString(loadedRaw.String)
	roll.FinishedDate, _ = parseDateString(finishedRaw.String)
	roll.SentForDevDate, _ = parseDateString(sentForDevRaw.String)
	roll.DevelopedDate, _ = parseDateString(developedRaw.String)
	roll.ScanDate, _ = parseDateString(scanRaw.String)
	if created, err := parseTimeString(createdRaw); err == nil {
		roll.CreatedAt = created
	}

	return RollSummary{
		Roll:       roll,
		StockName:  strings.TrimSpace(stockName),
		CameraName: cameraName,
		LensName:   lensName,
	}, nil
}
