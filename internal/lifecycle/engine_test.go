package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"filmlog/internal/lifecycle"
	"filmlog/internal/store"
	"filmlog/internal/testsupport"
)

var fixedDay = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func newEngine(t *testing.T) (*lifecycle.Engine, *store.Store, *store.User) {
	t.Helper()
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	user := testsupport.NewUser(t, st, "tester")
	engine := lifecycle.New(st, nil, lifecycle.WithClock(func() time.Time { return fixedDay }))
	return engine, st, user
}

func wantDate(t *testing.T, name string, got *time.Time) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s not stamped", name)
	}
	if got.Format("2006-01-02") != "2025-03-15" {
		t.Fatalf("%s = %s, want 2025-03-15", name, got.Format("2006-01-02"))
	}
}

func TestLabWorkflow(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "Portra 400", 36, 5)
	camera := testsupport.NewCamera(t, st, user.ID, "F3")
	lens := testsupport.NewLens(t, st, user.ID, "50mm f/1.4")

	roll, err := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	updatedStock, err := st.GetFilmStock(ctx, stock.ID)
	if err != nil {
		t.Fatalf("GetFilmStock: %v", err)
	}
	if updatedStock.QuantityOnHand != 4 {
		t.Fatalf("quantity = %d, want 4", updatedStock.QuantityOnHand)
	}

	push := 1.0
	roll, err = engine.Load(ctx, roll.ID, lifecycle.LoadInput{CameraID: camera.ID, LensID: &lens.ID, PushPullStops: &push})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if roll.Status != store.StatusLoaded {
		t.Fatalf("status = %q, want loaded", roll.Status)
	}
	wantDate(t, "loaded_date", roll.LoadedDate)
	frames, err := st.FramesForRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("FramesForRoll: %v", err)
	}
	if len(frames) != 36 {
		t.Fatalf("frames = %d, want 36", len(frames))
	}
	for _, frame := range frames {
		if frame.LensID == nil || *frame.LensID != lens.ID {
			t.Fatalf("frame %d lens not propagated", frame.FrameNumber)
		}
	}

	roll, err = engine.Advance(ctx, roll.ID)
	if err != nil {
		t.Fatalf("Advance to shooting: %v", err)
	}
	if roll.Status != store.StatusShooting {
		t.Fatalf("status = %q, want shooting", roll.Status)
	}
	roll, err = engine.Advance(ctx, roll.ID)
	if err != nil {
		t.Fatalf("Advance to finished: %v", err)
	}
	if roll.Status != store.StatusFinished {
		t.Fatalf("status = %q, want finished", roll.Status)
	}
	wantDate(t, "finished_date", roll.FinishedDate)

	cost := 12.50
	dev, err := engine.DevelopLab(ctx, roll.ID, lifecycle.LabDevelopment{LabName: "Acme Lab", CostAmount: &cost})
	if err != nil {
		t.Fatalf("DevelopLab: %v", err)
	}
	if dev.DevType != store.DevTypeLab || dev.LabName != "Acme Lab" {
		t.Fatalf("unexpected record %+v", dev)
	}
	roll, err = st.GetRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("GetRoll: %v", err)
	}
	if roll.Status != store.StatusDeveloping {
		t.Fatalf("status = %q, want developing", roll.Status)
	}
	wantDate(t, "sent_for_dev_date", roll.SentForDevDate)
	if roll.DevelopedDate != nil {
		t.Fatal("developed_date must not be stamped for lab development")
	}

	roll, err = engine.Advance(ctx, roll.ID)
	if err != nil {
		t.Fatalf("Advance lab return: %v", err)
	}
	if roll.Status != store.StatusDeveloped {
		t.Fatalf("status = %q, want developed", roll.Status)
	}
	wantDate(t, "developed_date", roll.DevelopedDate)

	roll, err = engine.RecordScan(ctx, roll.ID, "2025-01-01", "first pass scan")
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if roll.Status != store.StatusDeveloped {
		t.Fatalf("scan changed status to %q", roll.Status)
	}
	if roll.ScanDate == nil || roll.ScanDate.Format("2006-01-02") != "2025-01-01" {
		t.Fatalf("scan_date = %v, want 2025-01-01", roll.ScanDate)
	}
}

func TestSelfWorkflow(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "HP5 Plus", 36, 5)
	camera := testsupport.NewCamera(t, st, user.ID, "OM-1")

	roll, err := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := engine.Load(ctx, roll.ID, lifecycle.LoadInput{CameraID: camera.ID}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := engine.Advance(ctx, roll.ID); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if _, err := engine.Advance(ctx, roll.ID); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	duration := func(v int64) *int64 { return &v }
	dev, err := engine.DevelopSelf(ctx, roll.ID, lifecycle.SelfDevelopment{
		ProcessType: "B&W",
		Steps: []store.DevelopmentStep{
			{ChemicalName: "Developer", Temperature: "20C", DurationSeconds: duration(480)},
			{ChemicalName: "Fixer", Temperature: "20C", DurationSeconds: duration(300)},
		},
	})
	if err != nil {
		t.Fatalf("DevelopSelf: %v", err)
	}

	roll, err = st.GetRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("GetRoll: %v", err)
	}
	if roll.Status != store.StatusDeveloped {
		t.Fatalf("status = %q, want developed", roll.Status)
	}
	wantDate(t, "sent_for_dev_date", roll.SentForDevDate)
	wantDate(t, "developed_date", roll.DevelopedDate)

	steps, err := st.DevelopmentSteps(ctx, dev.ID)
	if err != nil {
		t.Fatalf("DevelopmentSteps: %v", err)
	}
	if len(steps) != 2 || steps[0].StepOrder != 0 || steps[1].StepOrder != 1 {
		t.Fatalf("unexpected steps %+v", steps)
	}
	if steps[0].ChemicalName != "Developer" || steps[1].ChemicalName != "Fixer" {
		t.Fatalf("step contents wrong: %+v", steps)
	}
}

func TestAdvanceFreshIsSilentNoop(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "Tri-X", 24, 2)
	roll, err := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	advanced, err := engine.Advance(ctx, roll.ID)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if advanced.Status != store.StatusFresh {
		t.Fatalf("status = %q, want fresh", advanced.Status)
	}
	if advanced.LoadedDate != nil || advanced.FinishedDate != nil {
		t.Fatal("no dates may be stamped by a fresh no-op")
	}
}

func TestAdvanceFinishedRequiresDevelopment(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "Tri-X", 24, 2)
	camera := testsupport.NewCamera(t, st, user.ID, "K1000")
	roll, err := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := engine.Load(ctx, roll.ID, lifecycle.LoadInput{CameraID: camera.ID}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := engine.Advance(ctx, roll.ID); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	_, err = engine.Advance(ctx, roll.ID)
	if !errors.Is(err, lifecycle.ErrDevelopmentRequired) {
		t.Fatalf("expected ErrDevelopmentRequired, got %v", err)
	}
	if !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("development-required must carry the invalid-transition kind, got %v", err)
	}
}

func TestAdvancePastDeveloped(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "Tri-X", 24, 2)
	camera := testsupport.NewCamera(t, st, user.ID, "K1000")
	roll, _ := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if _, err := engine.Load(ctx, roll.ID, lifecycle.LoadInput{CameraID: camera.ID}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	engine.Advance(ctx, roll.ID)
	engine.Advance(ctx, roll.ID)
	if _, err := engine.DevelopSelf(ctx, roll.ID, lifecycle.SelfDevelopment{
		Steps: []store.DevelopmentStep{{ChemicalName: "Monobath"}},
	}); err != nil {
		t.Fatalf("DevelopSelf: %v", err)
	}

	if _, err := engine.Advance(ctx, roll.ID); !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition past developed, got %v", err)
	}
}

func TestDevelopSelfFiltersBlankSteps(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "FP4", 24, 2)
	camera := testsupport.NewCamera(t, st, user.ID, "K1000")
	roll, _ := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if _, err := engine.Load(ctx, roll.ID, lifecycle.LoadInput{CameraID: camera.ID}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	engine.Advance(ctx, roll.ID)
	engine.Advance(ctx, roll.ID)

	dev, err := engine.DevelopSelf(ctx, roll.ID, lifecycle.SelfDevelopment{
		Steps: []store.DevelopmentStep{
			{ChemicalName: "  "},
			{ChemicalName: "Developer"},
			{ChemicalName: ""},
		},
	})
	if err != nil {
		t.Fatalf("DevelopSelf: %v", err)
	}
	steps, err := st.DevelopmentSteps(ctx, dev.ID)
	if err != nil {
		t.Fatalf("DevelopmentSteps: %v", err)
	}
	if len(steps) != 1 || steps[0].ChemicalName != "Developer" {
		t.Fatalf("blank steps not filtered: %+v", steps)
	}
}

func TestDevelopSelfRejectsEmptySteps(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "FP4", 24, 2)
	camera := testsupport.NewCamera(t, st, user.ID, "K1000")
	roll, _ := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if _, err := engine.Load(ctx, roll.ID, lifecycle.LoadInput{CameraID: camera.ID}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	engine.Advance(ctx, roll.ID)
	engine.Advance(ctx, roll.ID)

	_, err := engine.DevelopSelf(ctx, roll.ID, lifecycle.SelfDevelopment{
		Steps: []store.DevelopmentStep{{ChemicalName: "   "}},
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDevelopLabRequiresName(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "FP4", 24, 2)
	camera := testsupport.NewCamera(t, st, user.ID, "K1000")
	roll, _ := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if _, err := engine.Load(ctx, roll.ID, lifecycle.LoadInput{CameraID: camera.ID}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	engine.Advance(ctx, roll.ID)
	engine.Advance(ctx, roll.ID)

	if _, err := engine.DevelopLab(ctx, roll.ID, lifecycle.LabDevelopment{LabName: "  "}); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDevelopBeforeFinishedRejected(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "FP4", 24, 2)
	roll, _ := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})

	_, err := engine.DevelopSelf(ctx, roll.ID, lifecycle.SelfDevelopment{
		Steps: []store.DevelopmentStep{{ChemicalName: "Developer"}},
	})
	if !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestResaveDevelopmentKeepsStatusAndDates(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "HP5", 24, 2)
	camera := testsupport.NewCamera(t, st, user.ID, "K1000")
	roll, _ := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if _, err := engine.Load(ctx, roll.ID, lifecycle.LoadInput{CameraID: camera.ID}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	engine.Advance(ctx, roll.ID)
	engine.Advance(ctx, roll.ID)
	if _, err := engine.DevelopSelf(ctx, roll.ID, lifecycle.SelfDevelopment{
		Steps: []store.DevelopmentStep{{ChemicalName: "Developer"}},
	}); err != nil {
		t.Fatalf("DevelopSelf: %v", err)
	}
	before, err := st.GetRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("GetRoll: %v", err)
	}

	dev, err := engine.DevelopSelf(ctx, roll.ID, lifecycle.SelfDevelopment{
		ProcessType: "B&W",
		Steps:       []store.DevelopmentStep{{ChemicalName: "Monobath"}},
	})
	if err != nil {
		t.Fatalf("re-save: %v", err)
	}

	after, err := st.GetRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("GetRoll: %v", err)
	}
	if after.Status != store.StatusDeveloped {
		t.Fatalf("status moved to %q", after.Status)
	}
	if !after.DevelopedDate.Equal(*before.DevelopedDate) {
		t.Fatal("developed_date changed on re-save")
	}

	steps, err := st.DevelopmentSteps(ctx, dev.ID)
	if err != nil {
		t.Fatalf("DevelopmentSteps: %v", err)
	}
	if len(steps) != 1 || steps[0].ChemicalName != "Monobath" {
		t.Fatalf("steps not replaced: %+v", steps)
	}
}

func TestApplyRecipeCopiesByValue(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "Delta 400", 24, 2)
	camera := testsupport.NewCamera(t, st, user.ID, "K1000")
	roll, _ := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if _, err := engine.Load(ctx, roll.ID, lifecycle.LoadInput{CameraID: camera.ID}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	engine.Advance(ctx, roll.ID)
	engine.Advance(ctx, roll.ID)

	duration := func(v int64) *int64 { return &v }
	recipe, err := st.SaveDevRecipe(ctx, &store.DevRecipe{
		UserID: user.ID, Name: "DD-X standard", ProcessType: "B&W",
	}, []store.DevRecipeStep{
		{ChemicalName: "DD-X 1+4", Temperature: "20C", DurationSeconds: duration(540)},
		{ChemicalName: "Fixer", Temperature: "20C", DurationSeconds: duration(300)},
	})
	if err != nil {
		t.Fatalf("SaveDevRecipe: %v", err)
	}

	dev, err := engine.ApplyRecipe(ctx, roll.ID, recipe.ID)
	if err != nil {
		t.Fatalf("ApplyRecipe: %v", err)
	}
	if dev.DevType != store.DevTypeSelf || dev.ProcessType != "B&W" {
		t.Fatalf("unexpected record %+v", dev)
	}

	steps, err := st.DevelopmentSteps(ctx, dev.ID)
	if err != nil {
		t.Fatalf("DevelopmentSteps: %v", err)
	}
	if len(steps) != 2 || steps[0].ChemicalName != "DD-X 1+4" {
		t.Fatalf("recipe steps not copied: %+v", steps)
	}

	// Deleting the recipe leaves the copied record untouched.
	if err := st.DeleteDevRecipe(ctx, recipe.ID); err != nil {
		t.Fatalf("DeleteDevRecipe: %v", err)
	}
	steps, err = st.DevelopmentSteps(ctx, dev.ID)
	if err != nil {
		t.Fatalf("DevelopmentSteps: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("copied steps lost after recipe deletion: %d", len(steps))
	}
}

func TestRecordScanDefaultsToToday(t *testing.T) {
	engine, st, user := newEngine(t)
	ctx := context.Background()
	stock := testsupport.NewFilmStock(t, st, user.ID, "Ektar", 24, 2)
	camera := testsupport.NewCamera(t, st, user.ID, "K1000")
	roll, _ := engine.Create(ctx, user.ID, lifecycle.CreateInput{FilmStockID: stock.ID})
	if _, err := engine.Load(ctx, roll.ID, lifecycle.LoadInput{CameraID: camera.ID}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	engine.Advance(ctx, roll.ID)
	engine.Advance(ctx, roll.ID)
	if _, err := engine.DevelopSelf(ctx, roll.ID, lifecycle.SelfDevelopment{
		Steps: []store.DevelopmentStep{{ChemicalName: "Monobath"}},
	}); err != nil {
		t.Fatalf("DevelopSelf: %v", err)
	}

	roll, err := engine.RecordScan(ctx, roll.ID, "", "")
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	wantDate(t, "scan_date", roll.ScanDate)

	if _, err := engine.RecordScan(ctx, roll.ID, "01/02/2025", ""); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
}
