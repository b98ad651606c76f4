package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const recipeColumns = "id, user_id, name, process_type, notes, created_at"

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*DevRecipe, error) {
	var (
		id          int64
		userID      int64
		name        string
		processType sql.NullString
		notes       sql.NullString
		createdRaw  string
	)
	if err := scanner.Scan(&id, &userID, &name, &processType, &notes, &createdRaw); err != nil {
		return nil, err
	}

	recipe := &DevRecipe{
		ID:          id,
		UserID:      userID,
		Name:        name,
		ProcessType: processType.String,
		Notes:       notes.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		recipe.CreatedAt = created
	}
	return recipe, nil
}

// SaveDevRecipe inserts or updates a recipe (keyed by id presence) and
// wholesale-replaces its step list with order reassigned densely.
func (s *Store) SaveDevRecipe(ctx context.Context, recipe *DevRecipe, steps []DevRecipeStep) (*DevRecipe, error) {
	if recipe == nil {
		return nil, wrap(ErrValidation, "save recipe: nil recipe", nil)
	}
	if recipe.Name == "" {
		return nil, wrap(ErrValidation, "save recipe: name required", nil)
	}

	recipeID := recipe.ID
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if recipe.ID == 0 {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO dev_recipes (user_id, name, process_type, notes, created_at)
				VALUES (?, ?, ?, ?, ?)`,
				recipe.UserID,
				recipe.Name,
				nullableString(recipe.ProcessType),
				nullableString(recipe.Notes),
				timestamp(time.Now()),
			)
			if err != nil {
				return err
			}
			recipeID, err = res.LastInsertId()
			if err != nil {
				return err
			}
		} else {
			res, err := tx.ExecContext(ctx, `
				UPDATE dev_recipes SET name = ?, process_type = ?, notes = ? WHERE id = ?`,
				recipe.Name,
				nullableString(recipe.ProcessType),
				nullableString(recipe.Notes),
				recipe.ID,
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
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM dev_recipe_steps WHERE recipe_id = ?", recipeID); err != nil {
			return err
		}
		if len(steps) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO dev_recipe_steps (recipe_id, step_order, chemical_name, temperature, duration_seconds, agitation, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for order, step := range steps {
			if _, err := stmt.ExecContext(ctx,
				recipeID,
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
	})
	if err != nil {
		return nil, classify("save recipe", err)
	}
	return s.GetDevRecipe(ctx, recipeID)
}

// GetDevRecipe fetches one recipe by id.
func (s *Store) GetDevRecipe(ctx context.Context, id int64) (*DevRecipe, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recipeColumns+" FROM dev_recipes WHERE id = ?", id)
	recipe, err := scanRecipe(row)
	if err != nil {
		return nil, classify(fmt.Sprintf("get recipe %d", id), err)
	}
	return recipe, nil
}

// ListDevRecipes returns a user's recipes ordered by name.
func (s *Store) ListDevRecipes(ctx context.Context, userID int64) ([]*DevRecipe, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recipeColumns+" FROM dev_recipes WHERE user_id = ? ORDER BY name ASC", userID)
	if err != nil {
		return nil, classify("list recipes", err)
	}
	defer rows.Close()

	var recipes []*DevRecipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, classify("scan recipe", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate recipes", err)
	}
	return recipes, nil
}

// DevRecipeSteps returns a recipe's steps in step order.
func (s *Store) DevRecipeSteps(ctx context.Context, recipeID int64) ([]DevRecipeStep, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recipe_id, step_order, chemical_name, temperature, duration_seconds, agitation, notes
		FROM dev_recipe_steps WHERE recipe_id = ? ORDER BY step_order ASC`, recipeID)
	if err != nil {
		return nil, classify("list recipe steps", err)
	}
	defer rows.Close()

	var steps []DevRecipeStep
	for rows.Next() {
		var (
			step        DevRecipeStep
			temperature sql.NullString
			duration    sql.NullInt64
			agitation   sql.NullString
			notes       sql.NullString
		)
		if err := rows.Scan(&step.ID, &step.RecipeID, &step.StepOrder, &step.ChemicalName,
			&temperature, &duration, &agitation, &notes); err != nil {
			return nil, classify("scan recipe step", err)
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
		return nil, classify("iterate recipe steps", err)
	}
	return steps, nil
}

// DeleteDevRecipe removes a recipe; its steps cascade.
func (s *Store) DeleteDevRecipe(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM dev_recipes WHERE id = ?", id)
	if err != nil {
		return classify(fmt.Sprintf("delete recipe %d", id), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("delete recipe: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("delete recipe %d", id), nil)
	}
	return nil
}
