package lifecycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"filmlog/internal/store"
)

// ErrDevelopmentRequired signals that a finished roll cannot advance
// until self or lab development has been recorded. It carries the
// invalid-transition kind so generic handling still applies.
var ErrDevelopmentRequired = fmt.Errorf("%w: development details required before advancing", store.ErrInvalidTransition)

// Engine orchestrates roll lifecycle operations on top of the store.
type Engine struct {
	store  *store.Store
	logger *slog.Logger
	clock  func() time.Time
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock overrides the source of "today" used for date stamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// New constructs an engine. A nil logger discards log output.
func New(st *store.Store, logger *slog.Logger, opts ...Option) *Engine {
	engine := &Engine{
		store:  st,
		logger: logger,
		clock:  time.Now,
	}
	if engine.logger == nil {
		engine.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

func (e *Engine) today() time.Time {
	now := e.clock()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateInput carries the fields accepted at roll creation.
type CreateInput struct {
	FilmStockID   int64
	CameraID      *int64
	LensID        *int64
	Title         string
	Location      string
	Notes         string
	PushPullStops *float64
}

// Create inserts a fresh roll with its frame set and decrements the
// film stock, all in one transaction. The referenced stock must exist.
func (e *Engine) Create(ctx context.Context, userID int64, input CreateInput) (*store.Roll, error) {
	stock, err := e.store.GetFilmStock(ctx, input.FilmStockID)
	if err != nil {
		return nil, err
	}
	if stock.QuantityOnHand == 0 {
		e.logger.Warn("creating roll from depleted stock", "stock_id", stock.ID, "stock", stock.DisplayName())
	}

	roll, err := e.store.CreateRoll(ctx, &store.Roll{
		UserID:        userID,
		FilmStockID:   input.FilmStockID,
		CameraID:      input.CameraID,
		LensID:        input.LensID,
		Title:         input.Title,
		Location:      input.Location,
		Notes:         input.Notes,
		PushPullStops: input.PushPullStops,
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("roll created", "roll_id", roll.ID, "stock", stock.DisplayName(), "frames", stock.FramesPerRoll)
	return roll, nil
}

// LoadInput carries the fields accepted when loading a roll into a
// camera.
type LoadInput struct {
	CameraID      int64
	LensID        *int64
	PushPullStops *float64
	Location      string
}

// Load moves a fresh roll to loaded: stamps loaded_date, stores camera,
// lens, push/pull, and location, and propagates the chosen lens onto
// every frame (overwriting, not merging).
func (e *Engine) Load(ctx context.Context, rollID int64, input LoadInput) (*store.Roll, error) {
	if input.CameraID == 0 {
		return nil, fmt.Errorf("%w: camera required to load a roll", store.ErrValidation)
	}
	roll, err := e.store.GetRoll(ctx, rollID)
	if err != nil {
		return nil, err
	}
	if roll.Status != store.StatusFresh {
		return nil, fmt.Errorf("%w: cannot load roll in status %q", store.ErrInvalidTransition, roll.Status)
	}

	today := e.today()
	roll.Status = store.StatusLoaded
	roll.LoadedDate = &today
	roll.CameraID = &input.CameraID
	roll.LensID = input.LensID
	roll.PushPullStops = input.PushPullStops
	if input.Location != "" {
		roll.Location = input.Location
	}

	if err := e.store.UpdateRoll(ctx, roll); err != nil {
		return nil, err
	}
	if err := e.store.SetRollFramesLens(ctx, roll.ID, input.LensID); err != nil {
		return nil, err
	}
	e.logger.Info("roll loaded", "roll_id", roll.ID, "camera_id", input.CameraID)
	return roll, nil
}

// Advance bumps a roll one step forward. Fresh rolls are a silent
// no-op (an explicit Load is required first); finished rolls need a
// development choice and return ErrDevelopmentRequired; developing
// rolls record the lab return and stamp developed_date; developed is
// terminal.
func (e *Engine) Advance(ctx context.Context, rollID int64) (*store.Roll, error) {
	roll, err := e.store.GetRoll(ctx, rollID)
	if err != nil {
		return nil, err
	}

	switch roll.Status {
	case store.StatusFresh:
		return roll, nil
	case store.StatusLoaded:
		roll.Status = store.StatusShooting
	case store.StatusShooting:
		today := e.today()
		roll.Status = store.StatusFinished
		roll.FinishedDate = &today
	case store.StatusFinished:
		return nil, ErrDevelopmentRequired
	case store.StatusDeveloping:
		today := e.today()
		roll.Status = store.StatusDeveloped
		roll.DevelopedDate = &today
	default:
		return nil, fmt.Errorf("%w: cannot advance roll in status %q", store.ErrInvalidTransition, roll.Status)
	}

	if err := e.store.UpdateRoll(ctx, roll); err != nil {
		return nil, err
	}
	e.logger.Info("roll advanced", "roll_id", roll.ID, "status", string(roll.Status))
	return roll, nil
}

// RecordScan stores a scan date (defaulting to today) and notes on a
// developed roll without changing its status.
func (e *Engine) RecordScan(ctx context.Context, rollID int64, date, notes string) (*store.Roll, error) {
	roll, err := e.store.GetRoll(ctx, rollID)
	if err != nil {
		return nil, err
	}
	if roll.Status != store.StatusDeveloped {
		return nil, fmt.Errorf("%w: cannot record scan for roll in status %q", store.ErrInvalidTransition, roll.Status)
	}

	scanDate := e.today()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("%w: scan date %q is not YYYY-MM-DD", store.ErrValidation, date)
		}
		scanDate = parsed
	}
	roll.ScanDate = &scanDate
	if notes != "" {
		roll.ScanNotes = notes
	}

	if err := e.store.UpdateRoll(ctx, roll); err != nil {
		return nil, err
	}
	e.logger.Info("scan recorded", "roll_id", roll.ID, "scan_date", scanDate.Format("2006-01-02"))
	return roll, nil
}

// Delete removes a roll in any state. Frames are deleted with it and
// the development record cascades; the stock decrement is not undone.
func (e *Engine) Delete(ctx context.Context, rollID int64) error {
	if err := e.store.DeleteRoll(ctx, rollID); err != nil {
		return err
	}
	e.logger.Info("roll deleted", "roll_id", rollID)
	return nil
}
