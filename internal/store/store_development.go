package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const developmentColumns = "id, roll_id, dev_type, process_type, lab_name, lab_contact, cost_amount, notes, created_at"

func scanDevelopment(scanner interface{ Scan(dest ...any) error }) (*RollDevelopment, error) {
	var (
		id          int64
		rollID      int64
		devType     string
		processType sql.NullString
		labName     sql.NullString
		labContact  sql.NullString
		costAmount  sql.NullFloat64
		notes       sql.NullString
		createdRaw  string
	)
	if err := scanner.Scan(&id, &rollID, &devType, &processType, &labName, &labContact,
		&costAmount, &notes, &createdRaw); err != nil {
		return nil, err
	}

	dev := &RollDevelopment{
		ID:          id,
		RollID:      rollID,
		DevType:     DevType(devType),
		ProcessType: processType.String,
		LabName:     labName.String,
		LabContact:  labContact.String,
		Notes:       notes.String,
	}
	if costAmount.Valid {
		v := costAmount.Float64
		dev.CostAmount = &v
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		dev.CreatedAt = created
	}
	return dev, nil
}

// SaveRollDevelopment inserts or updates a development record (keyed by
// the presence of an id) and wholesale-replaces its step list, with
// step_order reassigned densely from the supplied slice's positions.
// An insert that violates the one-record-per-roll uniqueness raises a
// conflict and leaves the existing record untouched.
func (s *Store) SaveRollDevelopment(ctx context.Context, dev *RollDevelopment, steps []DevelopmentStep) (*RollDevelopment, error) {
	if dev == nil {
		return nil, wrap(ErrValidation, "save development: nil record", nil)
	}
	if _, ok := ParseDevType(string(dev.DevType)); !ok {
		return nil, wrap(ErrValidation, fmt.Sprintf("save development: unknown dev type %q", dev.DevType), nil)
	}

	devID := dev.ID
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		devID, err = saveDevelopmentTx(ctx, tx, dev)
		if err != nil {
			return err
		}
		return replaceDevelopmentSteps(ctx, tx, devID, steps)
	})
	if err != nil {
		return nil, classify("save development", err)
	}
	return s.GetRollDevelopment(ctx, devID)
}

func saveDevelopmentTx(ctx context.Context, tx *sql.Tx, dev *RollDevelopment) (int64, error) {
	if dev.ID == 0 {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO roll_development (roll_id, dev_type, process_type, lab_name, lab_contact, cost_amount, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			dev.RollID,
			string(dev.DevType),
			nullableString(dev.ProcessType),
			nullableString(dev.LabName),
			nullableString(dev.LabContact),
			nullableFloat64(dev.CostAmount),
			nullableString(dev.Notes),
			timestamp(time.Now()),
		)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE roll_development
		SET dev_type = ?, process_type = ?, lab_name = ?, lab_contact = ?, cost_amount = ?, notes = ?
		WHERE id = ?`,
		string(dev.DevType),
		nullableString(dev.ProcessType),
		nullableString(dev.LabName),
		nullableString(dev.LabContact),
		nullableFloat64(dev.CostAmount),
		nullableString(dev.Notes),
		dev.ID,
	)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, sql.ErrNoRows
	}
	return dev.ID, nil
}

func replaceDevelopmentSteps(ctx context.Context, tx *sql.Tx, devID int64, steps []DevelopmentStep) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM development_steps WHERE development_id = ?", devID); err != nil {
		return err
	}
	if len(steps) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO development_steps (development_id, step_order, chemical_name, temperature, duration_seconds, agitation, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for order, step := range steps {
		if _, err := stmt.ExecContext(ctx,
			devID,
			order,
			step.ChemicalName,
			nullableString(step.Temperature),
			nullableInt64(step.DurationSeconds),
			nullableString(step.Agitation),
			nullableString(step.Notes),
		); err != nil {
			return err
		}
	}
	return nil
}

// GetRollDevelopment fetches one development record by id.
func (s *Store) GetRollDevelopment(ctx context.Context, id int64) (*RollDevelopment, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+developmentColumns+" FROM roll_development WHERE id = ?", id)
	dev, err := scanDevelopment(row)
	if err != nil {
		return nil, classify(fmt.Sprintf("get development %d", id), err)
	}
	return dev, nil
}

// GetRollDevelopmentByRoll fetches the development record for a roll,
// or nil when the roll has none.
func (s *Store) GetRollDevelopmentByRoll(ctx context.Context, rollID int64) (*RollDevelopment, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+developmentColumns+" FROM roll_development WHERE roll_id = ?", rollID)
	dev, err := scanDevelopment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(fmt.Sprintf("get development for roll %d", rollID), err)
	}
	return dev, nil
}

// DevelopmentSteps returns a record's steps in step order.
func (s *Store) DevelopmentSteps(ctx context.Context, developmentID int64) ([]DevelopmentStep, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, development_id, step_order, chemical_name, temperature, duration_seconds, agitation, notes
		FROM development_steps WHERE development_id = ? ORDER BY step_order ASC`, developmentID)
	if err != nil {
		return nil, classify("list development steps", err)
	}
	defer rows.Close()

	var steps []DevelopmentStep
	for rows.Next() {
		var (
			step        DevelopmentStep
			temperature sql.NullString
			duration    sql.NullInt64
			agitation   sql.NullString
			notes       sql.NullString
		)
		if err := rows.Scan(&step.ID, &step.DevelopmentID, &step.StepOrder, &step.ChemicalName,
			&temperature, &duration, &agitation, &notes); err != nil {
			return nil, classify("scan development step", err)
		}
		step.Temperature = temperature.String
		step.Agitation = agitation.String
		step.Notes = notes.String
		if duration.Valid {
			v := duration.Int64
			step.DurationSeconds = &v
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate development steps", err)
	}
	return steps, nil
}

// DeleteRollDevelopmentByRoll removes a roll's development record; its
// steps cascade. Missing records are not an error.
func (s *Store) DeleteRollDevelopmentByRoll(ctx context.Context, rollID int64) error {
	_, err := s.execWithRetry(ctx, "DELETE FROM roll_development WHERE roll_id = ?", rollID)
	if err != nil {
		return classify(fmt.Sprintf("delete development for roll %d", rollID), err)
	}
	return nil
}

// RecordDevelopment saves a development record with its steps and
// updates the owning roll's status and dates in one transaction.
func (s *Store) RecordDevelopment(ctx context.Context, roll *Roll, dev *RollDevelopment, steps []DevelopmentStep) (*RollDevelopment, error) {
	if roll == nil || roll.ID == 0 {
		return nil, wrap(ErrValidation, "record development: missing roll", nil)
	}
	if dev == nil {
		return nil, wrap(ErrValidation, "record development: nil record", nil)
	}
	if _, ok := ParseDevType(string(dev.DevType)); !ok {
		return nil, wrap(ErrValidation, fmt.Sprintf("record development: unknown dev type %q", dev.DevType), nil)
	}

	devID := dev.ID
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		devID, err = saveDevelopmentTx(ctx, tx, dev)
		if err != nil {
			return err
		}
		if err := replaceDevelopmentSteps(ctx, tx, devID, steps); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE rolls
			SET status = ?, sent_for_dev_date = ?, developed_date = ?
			WHERE id = ?`,
			string(roll.Status),
			nullableDate(roll.SentForDevDate),
			nullableDate(roll.DevelopedDate),
			roll.ID,
		)
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
		return nil, classify("record development", err)
	}
	return s.GetRollDevelopment(ctx, devID)
}
