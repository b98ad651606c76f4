package store

import (
	"context"
	"database/sql"
	"fmt"
)

const frameColumns = "id, roll_id, frame_number, subject, aperture, shutter_speed, lens_id, date_taken, location, rating, notes"

func scanFrame(scanner interface{ Scan(dest ...any) error }) (*Frame, error) {
	var (
		id           int64
		rollID       int64
		frameNumber  int
		subject      sql.NullString
		aperture     sql.NullString
		shutterSpeed sql.NullString
		lensID       sql.NullInt64
		dateTakenRaw sql.NullString
		location     sql.NullString
		rating       sql.NullInt64
		notes        sql.NullString
	)
	if err := scanner.Scan(&id, &rollID, &frameNumber, &subject, &aperture, &shutterSpeed,
		&lensID, &dateTakenRaw, &location, &rating, &notes); err != nil {
		return nil, err
	}

	frame := &Frame{
		ID:           id,
		RollID:       rollID,
		FrameNumber:  frameNumber,
		Subject:      subject.String,
		Aperture:     aperture.String,
		ShutterSpeed: shutterSpeed.String,
		Location:     location.String,
		Notes:        notes.String,
	}
	if lensID.Valid {
		v := lensID.Int64
		frame.LensID = &v
	}
	if rating.Valid {
		v := rating.Int64
		frame.Rating = &v
	}
	frame.DateTaken, _ = parseDateString(dateTakenRaw.String)
	return frame, nil
}

// CreateFramesForRoll inserts count frames numbered 1..count, each
// seeded with the default lens. count == 0 is a valid no-op for
// unbounded media.
func (s *Store) CreateFramesForRoll(ctx context.Context, rollID int64, count int, defaultLens *int64) error {
	if count <= 0 {
		return nil
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return insertFrames(ctx, tx, rollID, count, defaultLens)
	})
	if err != nil {
		return classify(fmt.Sprintf("create frames for roll %d", rollID), err)
	}
	return nil
}

// FramesForRoll returns a roll's frames ordered by frame number.
func (s *Store) FramesForRoll(ctx context.Context, rollID int64) ([]*Frame, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+frameColumns+" FROM frames WHERE roll_id = ? ORDER BY frame_number ASC", rollID)
	if err != nil {
		return nil, classify("list frames", err)
	}
	defer rows.Close()

	var frames []*Frame
	for rows.Next() {
		frame, err := scanFrame(rows)
		if err != nil {
			return nil, classify("scan frame", err)
		}
		frames = append(frames, frame)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate frames", err)
	}
	return frames, nil
}

// GetFrame fetches one frame of a roll by its 1-based number.
func (s *Store) GetFrame(ctx context.Context, rollID int64, frameNumber int) (*Frame, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+frameColumns+" FROM frames WHERE roll_id = ? AND frame_number = ?", rollID, frameNumber)
	frame, err := scanFrame(row)
	if err != nil {
		return nil, classify(fmt.Sprintf("get frame %d of roll %d", frameNumber, rollID), err)
	}
	return frame, nil
}

// UpdateFrame persists field edits on one frame. Frame sets are fixed
// at roll creation; there is no structural add or remove.
func (s *Store) UpdateFrame(ctx context.Context, frame *Frame) error {
	if frame == nil || frame.ID == 0 {
		return wrap(ErrValidation, "update frame: missing id", nil)
	}
	res, err := s.execWithRetry(ctx, `
		UPDATE frames
		SET subject = ?, aperture = ?, shutter_speed = ?, lens_id = ?, date_taken = ?, location = ?, rating = ?, notes = ?
		WHERE id = ?`,
		nullableString(frame.Subject),
		nullableString(frame.Aperture),
		nullableString(frame.ShutterSpeed),
		nullableInt64(frame.LensID),
		nullableDate(frame.DateTaken),
		nullableString(frame.Location),
		nullableInt64(frame.Rating),
		nullableString(frame.Notes),
		frame.ID,
	)
	if err != nil {
		return classify("update frame", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("update frame: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("update frame %d", frame.ID), nil)
	}
	return nil
}

// SetRollFramesLens overwrites the lens reference on every frame of a
// roll. A nil lens clears all frame lenses.
func (s *Store) SetRollFramesLens(ctx context.Context, rollID int64, lensID *int64) error {
	_, err := s.execWithRetry(ctx,
		"UPDATE frames SET lens_id = ? WHERE roll_id = ?", nullableInt64(lensID), rollID)
	if err != nil {
		return classify(fmt.Sprintf("set lens for roll %d frames", rollID), err)
	}
	return nil
}
