package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"filmlog/internal/store"
)

// SelfDevelopment carries the inputs for recording a self-developed
// roll.
type SelfDevelopment struct {
	ProcessType string
	Notes       string
	Steps       []store.DevelopmentStep
}

// LabDevelopment carries the inputs for recording a lab-developed roll.
type LabDevelopment struct {
	LabName    string
	LabContact string
	CostAmount *float64
	Notes      string
}

// DevelopSelf records self-development on a finished roll. Steps with a
// blank chemical name are discarded; an empty remainder is rejected.
// Self-development is instantaneous: the roll moves straight to
// developed with both sent_for_dev_date and developed_date stamped.
// Calling it again on an already-developed roll replaces the record and
// its steps without touching status or dates.
func (e *Engine) DevelopSelf(ctx context.Context, rollID int64, input SelfDevelopment) (*store.RollDevelopment, error) {
	steps := filterSteps(input.Steps)
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: self-development requires at least one step with a chemical name", store.ErrValidation)
	}

	roll, existing, err := e.developTarget(ctx, rollID)
	if err != nil {
		return nil, err
	}

	dev := &store.RollDevelopment{
		RollID:      rollID,
		DevType:     store.DevTypeSelf,
		ProcessType: input.ProcessType,
		Notes:       input.Notes,
	}
	if existing != nil {
		dev.ID = existing.ID
		dev.CreatedAt = existing.CreatedAt
	}

	if roll.Status.Before(store.StatusDeveloped) {
		today := e.today()
		roll.Status = store.StatusDeveloped
		if roll.SentForDevDate == nil {
			roll.SentForDevDate = &today
		}
		if roll.DevelopedDate == nil {
			roll.DevelopedDate = &today
		}
	}

	saved, err := e.store.RecordDevelopment(ctx, roll, dev, steps)
	if err != nil {
		return nil, err
	}
	e.logger.Info("self development recorded", "roll_id", rollID, "process", input.ProcessType, "steps", len(steps))
	return saved, nil
}

// DevelopLab records lab development on a finished roll. The lab name
// is required; no steps are stored. The roll moves to developing with
// only sent_for_dev_date stamped, awaiting the lab return. Re-recording
// on a developing or developed roll replaces the record without moving
// status backward.
func (e *Engine) DevelopLab(ctx context.Context, rollID int64, input LabDevelopment) (*store.RollDevelopment, error) {
	if strings.TrimSpace(input.LabName) == "" {
		return nil, fmt.Errorf("%w: lab name required for lab development", store.ErrValidation)
	}

	roll, existing, err := e.developTarget(ctx, rollID)
	if err != nil {
		return nil, err
	}

	dev := &store.RollDevelopment{
		RollID:     rollID,
		DevType:    store.DevTypeLab,
		LabName:    strings.TrimSpace(input.LabName),
		LabContact: input.LabContact,
		CostAmount: input.CostAmount,
		Notes:      input.Notes,
	}
	if existing != nil {
		dev.ID = existing.ID
		dev.CreatedAt = existing.CreatedAt
	}

	if roll.Status == store.StatusFinished {
		today := e.today()
		roll.Status = store.StatusDeveloping
		if roll.SentForDevDate == nil {
			roll.SentForDevDate = &today
		}
	}

	saved, err := e.store.RecordDevelopment(ctx, roll, dev, nil)
	if err != nil {
		return nil, err
	}
	e.logger.Info("lab development recorded", "roll_id", rollID, "lab", dev.LabName)
	return saved, nil
}

// ApplyRecipe records self-development on a roll by copying a recipe's
// process type, notes, and step contents into a fresh step list. The
// copy is by value; the recipe and the roll's record evolve
// independently afterwards.
func (e *Engine) ApplyRecipe(ctx context.Context, rollID, recipeID int64) (*store.RollDevelopment, error) {
	recipe, err := e.store.GetDevRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	recipeSteps, err := e.store.DevRecipeSteps(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	steps := make([]store.DevelopmentStep, 0, len(recipeSteps))
	for _, step := range recipeSteps {
		steps = append(steps, store.DevelopmentStep{
			ChemicalName:    step.ChemicalName,
			Temperature:     step.Temperature,
			DurationSeconds: step.DurationSeconds,
			Agitation:       step.Agitation,
			Notes:           step.Notes,
		})
	}

	return e.DevelopSelf(ctx, rollID, SelfDevelopment{
		ProcessType: recipe.ProcessType,
		Notes:       recipe.Notes,
		Steps:       steps,
	})
}

// developTarget fetches the roll and its existing development record,
// rejecting rolls that have not finished shooting yet.
func (e *Engine) developTarget(ctx context.Context, rollID int64) (*store.Roll, *store.RollDevelopment, error) {
	roll, err := e.store.GetRoll(ctx, rollID)
	if err != nil {
		return nil, nil, err
	}
	if roll.Status.Before(store.StatusFinished) {
		return nil, nil, fmt.Errorf("%w: cannot record development for roll in status %q", store.ErrInvalidTransition, roll.Status)
	}
	existing, err := e.store.GetRollDevelopmentByRoll(ctx, rollID)
	if err != nil {
		return nil, nil, err
	}
	return roll, existing, nil
}

func filterSteps(steps []store.DevelopmentStep) []store.DevelopmentStep {
	kept := make([]store.DevelopmentStep, 0, len(steps))
	for _, step := range steps {
		if strings.TrimSpace(step.ChemicalName) == "" {
			continue
		}
		kept = append(kept, step)
	}
	return kept
}
