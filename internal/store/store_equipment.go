package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const cameraColumns = "id, user_id, name, make, model, serial_number, year_built, year_purchased, purchased_from, description, notes, camera_type, sensor_size, created_at, updated_at"

func scanCamera(scanner interface{ Scan(dest ...any) error }) (*Camera, error) {
	var (
		id            int64
		userID        int64
		name          string
		makeName      sql.NullString
		model         sql.NullString
		serial        sql.NullString
		yearBuilt     sql.NullInt64
		yearPurchased sql.NullInt64
		purchasedFrom sql.NullString
		description   sql.NullString
		notes         sql.NullString
		cameraType    string
		sensorSize    sql.NullString
		createdRaw    string
		updatedRaw    string
	)
	if err := scanner.Scan(&id, &userID, &name, &makeName, &model, &serial,
		&yearBuilt, &yearPurchased, &purchasedFrom, &description, &notes,
		&cameraType, &sensorSize, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	camera := &Camera{
		ID:            id,
		UserID:        userID,
		Name:          name,
		Make:          makeName.String,
		Model:         model.String,
		SerialNumber:  serial.String,
		PurchasedFrom: purchasedFrom.String,
		Description:   description.String,
		Notes:         notes.String,
		CameraType:    cameraType,
		SensorSize:    sensorSize.String,
	}
	if yearBuilt.Valid {
		v := yearBuilt.Int64
		camera.YearBuilt = &v
	}
	if yearPurchased.Valid {
		v := yearPurchased.Int64
		camera.YearPurchased = &v
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		camera.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		camera.UpdatedAt = updated
	}
	return camera, nil
}

// CreateCamera inserts a camera and returns it with its assigned id.
func (s *Store) CreateCamera(ctx context.Context, camera *Camera) (*Camera, error) {
	if camera == nil || camera.Name == "" {
		return nil, wrap(ErrValidation, "create camera: name required", nil)
	}
	cameraType := camera.CameraType
	if cameraType == "" {
		cameraType = "film"
	}
	now := timestamp(time.Now())
	res, err := s.execWithRetry(ctx, `
		INSERT INTO cameras (user_id, name, make, model, serial_number, year_built, year_purchased, purchased_from, description, notes, camera_type, sensor_size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		camera.UserID,
		camera.Name,
		nullableString(camera.Make),
		nullableString(camera.Model),
		nullableString(camera.SerialNumber),
		nullableInt64(camera.YearBuilt),
		nullableInt64(camera.YearPurchased),
		nullableString(camera.PurchasedFrom),
		nullableString(camera.Description),
		nullableString(camera.Notes),
		cameraType,
		nullableString(camera.SensorSize),
		now,
		now,
	)
	if err != nil {
		return nil, classify("create camera", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, classify("create camera: last insert id", err)
	}
	return s.GetCamera(ctx, id)
}

// GetCamera fetches one camera by id.
func (s *Store) GetCamera(ctx context.Context, id int64) (*Camera, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+cameraColumns+" FROM cameras WHERE id = ?", id)
	camera, err := scanCamera(row)
	if err != nil {
		return nil, classify(fmt.Sprintf("get camera %d", id), err)
	}
	return camera, nil
}

// ListCameras returns a user's cameras ordered by name.
func (s *Store) ListCameras(ctx context.Context, userID int64) ([]*Camera, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+cameraColumns+" FROM cameras WHERE user_id = ? ORDER BY name ASC", userID)
	if err != nil {
		return nil, classify("list cameras", err)
	}
	defer rows.Close()

	var cameras []*Camera
	for rows.Next() {
		camera, err := scanCamera(rows)
		if err != nil {
			return nil, classify("scan camera", err)
		}
		cameras = append(cameras, camera)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate cameras", err)
	}
	return cameras, nil
}

// UpdateCamera persists field edits on a camera.
func (s *Store) UpdateCamera(ctx context.Context, camera *Camera) error {
	if camera == nil || camera.ID == 0 {
		return wrap(ErrValidation, "update camera: missing id", nil)
	}
	res, err := s.execWithRetry(ctx, `
		UPDATE cameras
		SET name = ?, make = ?, model = ?, serial_number = ?, year_built = ?, year_purchased = ?,
		    purchased_from = ?, description = ?, notes = ?, camera_type = ?, sensor_size = ?, updated_at = ?
		WHERE id = ?`,
		camera.Name,
		nullableString(camera.Make),
		nullableString(camera.Model),
		nullableString(camera.SerialNumber),
		nullableInt64(camera.YearBuilt),
		nullableInt64(camera.YearPurchased),
		nullableString(camera.PurchasedFrom),
		nullableString(camera.Description),
		nullableString(camera.Notes),
		camera.CameraType,
		nullableString(camera.SensorSize),
		timestamp(time.Now()),
		camera.ID,
	)
	if err != nil {
		return classify("update camera", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("update camera: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("update camera %d", camera.ID), nil)
	}
	return nil
}

// DeleteCamera removes a camera; its issue log cascades. Cameras
// referenced by rolls are protected by the foreign key.
func (s *Store) DeleteCamera(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM cameras WHERE id = ?", id)
	if err != nil {
		return classify(fmt.Sprintf("delete camera %d", id), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("delete camera: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("delete camera %d", id), nil)
	}
	return nil
}

// AddCameraIssue appends a fault entry to a camera's issue log.
func (s *Store) AddCameraIssue(ctx context.Context, issue *CameraIssue) (*CameraIssue, error) {
	if issue == nil || issue.CameraID == 0 || issue.Description == "" {
		return nil, wrap(ErrValidation, "add camera issue: camera and description required", nil)
	}
	res, err := s.execWithRetry(ctx, `
		INSERT INTO camera_issues (camera_id, description, date_noted, resolved, resolved_date, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		issue.CameraID,
		issue.Description,
		nullableDate(issue.DateNoted),
		boolToInt(issue.Resolved),
		nullableDate(issue.ResolvedDate),
		nullableString(issue.Notes),
	)
	if err != nil {
		return nil, classify("add camera issue", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, classify("add camera issue: last insert id", err)
	}
	issue.ID = id
	return issue, nil
}

// CameraIssues returns a camera's fault log, oldest first.
func (s *Store) CameraIssues(ctx context.Context, cameraID int64) ([]*CameraIssue, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, camera_id, description, date_noted, resolved, resolved_date, notes
		FROM camera_issues WHERE camera_id = ? ORDER BY id ASC`, cameraID)
	if err != nil {
		return nil, classify("list camera issues", err)
	}
	defer rows.Close()

	var issues []*CameraIssue
	for rows.Next() {
		var (
			issue       CameraIssue
			dateNoted   sql.NullString
			resolved    int
			resolvedRaw sql.NullString
			notes       sql.NullString
		)
		if err := rows.Scan(&issue.ID, &issue.CameraID, &issue.Description,
			&dateNoted, &resolved, &resolvedRaw, &notes); err != nil {
			return nil, classify("scan camera issue", err)
		}
		issue.Resolved = resolved != 0
		issue.Notes = notes.String
		issue.DateNoted, _ = parseDateString(dateNoted.String)
		issue.ResolvedDate, _ = parseDateString(resolvedRaw.String)
		issues = append(issues, &issue)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate camera issues", err)
	}
	return issues, nil
}

// ResolveCameraIssue marks an issue resolved as of the given date.
func (s *Store) ResolveCameraIssue(ctx context.Context, issueID int64, resolvedDate time.Time) error {
	res, err := s.execWithRetry(ctx,
		"UPDATE camera_issues SET resolved = 1, resolved_date = ? WHERE id = ?",
		resolvedDate.Format(dateFormat), issueID)
	if err != nil {
		return classify("resolve camera issue", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("resolve camera issue: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("resolve camera issue %d", issueID), nil)
	}
	return nil
}

const lensColumns = "id, user_id, name, make, model, focal_length, max_aperture, filter_diameter, year_built, year_purchased, purchase_location, created_at, updated_at"

func scanLens(scanner interface{ Scan(dest ...any) error }) (*Lens, error) {
	var (
		id               int64
		userID           int64
		name             string
		makeName         sql.NullString
		model            sql.NullString
		focalLength      sql.NullString
		maxAperture      sql.NullString
		filterDiameter   sql.NullString
		yearBuilt        sql.NullInt64
		yearPurchased    sql.NullInt64
		purchaseLocation sql.NullString
		createdRaw       string
		updatedRaw       string
	)
	if err := scanner.Scan(&id, &userID, &name, &makeName, &model, &focalLength,
		&maxAperture, &filterDiameter, &yearBuilt, &yearPurchased, &purchaseLocation,
		&createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	lens := &Lens{
		ID:               id,
		UserID:           userID,
		Name:             name,
		Make:             makeName.String,
		Model:            model.String,
		FocalLength:      focalLength.String,
		MaxAperture:      maxAperture.String,
		FilterDiameter:   filterDiameter.String,
		PurchaseLocation: purchaseLocation.String,
	}
	if yearBuilt.Valid {
		v := yearBuilt.Int64
		lens.YearBuilt = &v
	}
	if yearPurchased.Valid {
		v := yearPurchased.Int64
		lens.YearPurchased = &v
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		lens.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		lens.UpdatedAt = updated
	}
	return lens, nil
}

// CreateLens inserts a lens and returns it with its assigned id.
func (s *Store) CreateLens(ctx context.Context, lens *Lens) (*Lens, error) {
	if lens == nil || lens.Name == "" {
		return nil, wrap(ErrValidation, "create lens: name required", nil)
	}
	now := timestamp(time.Now())
	res, err := s.execWithRetry(ctx, `
		INSERT INTO lenses (user_id, name, make, model, focal_length, max_aperture, filter_diameter, year_built, year_purchased, purchase_location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lens.UserID,
		lens.Name,
		nullableString(lens.Make),
		nullableString(lens.Model),
		nullableString(lens.FocalLength),
		nullableString(lens.MaxAperture),
		nullableString(lens.FilterDiameter),
		nullableInt64(lens.YearBuilt),
		nullableInt64(lens.YearPurchased),
		nullableString(lens.PurchaseLocation),
		now,
		now,
	)
	if err != nil {
		return nil, classify("create lens", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, classify("create lens: last insert id", err)
	}
	return s.GetLens(ctx, id)
}

// GetLens fetches one lens by id.
func (s *Store) GetLens(ctx context.Context, id int64) (*Lens, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+lensColumns+" FROM lenses WHERE id = ?", id)
	lens, err := scanLens(row)
	if err != nil {
		return nil, classify(fmt.Sprintf("get lens %d", id), err)
	}
	return lens, nil
}

// ListLenses returns a user's lenses ordered by name.
func (s *Store) ListLenses(ctx context.Context, userID int64) ([]*Lens, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+lensColumns+" FROM lenses WHERE user_id = ? ORDER BY name ASC", userID)
	if err != nil {
		return nil, classify("list lenses", err)
	}
	defer rows.Close()

	var lenses []*Lens
	for rows.Next() {
		lens, err := scanLens(rows)
		if err != nil {
			return nil, classify("scan lens", err)
		}
		lenses = append(lenses, lens)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate lenses", err)
	}
	return lenses, nil
}

// UpdateLens persists field edits on a lens.
func (s *Store) UpdateLens(ctx context.Context, lens *Lens) error {
	if lens == nil || lens.ID == 0 {
		return wrap(ErrValidation, "update lens: missing id", nil)
	}
	res, err := s.execWithRetry(ctx, `
		UPDATE lenses
		SET name = ?, make = ?, model = ?, focal_length = ?, max_aperture = ?, filter_diameter = ?,
		    year_built = ?, year_purchased = ?, purchase_location = ?, updated_at = ?
		WHERE id = ?`,
		lens.Name,
		nullableString(lens.Make),
		nullableString(lens.Model),
		nullableString(lens.FocalLength),
		nullableString(lens.MaxAperture),
		nullableString(lens.FilterDiameter),
		nullableInt64(lens.YearBuilt),
		nullableInt64(lens.YearPurchased),
		nullableString(lens.PurchaseLocation),
		timestamp(time.Now()),
		lens.ID,
	)
	if err != nil {
		return classify("update lens", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("update lens: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("update lens %d", lens.ID), nil)
	}
	return nil
}

// DeleteLens removes a lens; its notes cascade. Lenses referenced by
// rolls or frames are protected by the foreign key.
func (s *Store) DeleteLens(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM lenses WHERE id = ?", id)
	if err != nil {
		return classify(fmt.Sprintf("delete lens %d", id), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("delete lens: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("delete lens %d", id), nil)
	}
	return nil
}

// AddLensNote appends a note to a lens.
func (s *Store) AddLensNote(ctx context.Context, lensID int64, content string) (*LensNote, error) {
	if lensID == 0 || content == "" {
		return nil, wrap(ErrValidation, "add lens note: lens and content required", nil)
	}
	now := timestamp(time.Now())
	res, err := s.execWithRetry(ctx,
		"INSERT INTO lens_notes (lens_id, content, created_at, updated_at) VALUES (?, ?, ?, ?)",
		lensID, content, now, now)
	if err != nil {
		return nil, classify("add lens note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, classify("add lens note: last insert id", err)
	}
	note := &LensNote{ID: id, LensID: lensID, Content: content}
	if created, err := parseTimeString(now); err == nil {
		note.CreatedAt = created
		note.UpdatedAt = created
	}
	return note, nil
}

// LensNotes returns a lens's notes, oldest first.
func (s *Store) LensNotes(ctx context.Context, lensID int64) ([]*LensNote, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, lens_id, content, created_at, updated_at FROM lens_notes WHERE lens_id = ? ORDER BY id ASC", lensID)
	if err != nil {
		return nil, classify("list lens notes", err)
	}
	defer rows.Close()

	var notes []*LensNote
	for rows.Next() {
		var (
			note       LensNote
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&note.ID, &note.LensID, &note.Content, &createdRaw, &updatedRaw); err != nil {
			return nil, classify("scan lens note", err)
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			note.CreatedAt = created
		}
		if updated, err := parseTimeString(updatedRaw); err == nil {
			note.UpdatedAt = updated
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate lens notes", err)
	}
	return notes, nil
}
