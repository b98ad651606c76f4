package store_test

import (
	"context"
	"errors"
	"testing"

	"filmlog/internal/store"
	"filmlog/internal/testsupport"
)

func TestCreateRollPopulatesFrames(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	stock := testsupport.NewFilmStock(t, st, user.ID, "HP5 Plus", 36, 5)

	roll, err := st.CreateRoll(ctx, &store.Roll{UserID: user.ID, FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}
	if roll.Status != store.StatusFresh {
		t.Fatalf("expected fresh status, got %q", roll.Status)
	}

	frames, err := st.FramesForRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("FramesForRoll: %v", err)
	}
	if len(frames) != 36 {
		t.Fatalf("expected 36 frames, got %d", len(frames))
	}
	for i, frame := range frames {
		if frame.FrameNumber != i+1 {
			t.Fatalf("frame %d has number %d", i, frame.FrameNumber)
		}
	}

	updated, err := st.GetFilmStock(ctx, stock.ID)
	if err != nil {
		t.Fatalf("GetFilmStock: %v", err)
	}
	if updated.QuantityOnHand != 4 {
		t.Fatalf("expected quantity 4, got %d", updated.QuantityOnHand)
	}
}

func TestCreateRollUnboundedMediaHasNoFrames(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	stock := testsupport.NewFilmStock(t, st, user.ID, "CFexpress", 0, 3)

	roll, err := st.CreateRoll(ctx, &store.Roll{UserID: user.ID, FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}

	frames, err := st.FramesForRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("FramesForRoll: %v", err)
	}
	if len(frames) != 0 {
		t.Fatalf("expected no frames for unbounded media, got %d", len(frames))
	}
}

func TestCreateRollSeedsFrameLens(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	stock := testsupport.NewFilmStock(t, st, user.ID, "Tri-X", 12, 1)
	lens := testsupport.NewLens(t, st, user.ID, "50mm f/1.8")

	roll, err := st.CreateRoll(ctx, &store.Roll{UserID: user.ID, FilmStockID: stock.ID, LensID: &lens.ID})
	if err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}

	frames, err := st.FramesForRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("FramesForRoll: %v", err)
	}
	for _, frame := range frames {
		if frame.LensID == nil || *frame.LensID != lens.ID {
			t.Fatalf("frame %d not seeded with roll lens", frame.FrameNumber)
		}
	}
}

func TestDecrementFloorsAtZero(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	stock := testsupport.NewFilmStock(t, st, user.ID, "Gold 200", 24, 0)

	if _, err := st.CreateRoll(ctx, &store.Roll{UserID: user.ID, FilmStockID: stock.ID}); err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}

	updated, err := st.GetFilmStock(ctx, stock.ID)
	if err != nil {
		t.Fatalf("GetFilmStock: %v", err)
	}
	if updated.QuantityOnHand != 0 {
		t.Fatalf("expected quantity to stay 0, got %d", updated.QuantityOnHand)
	}
}

func TestCreateRollMissingStock(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	user := testsupport.NewUser(t, st, "tester")

	_, err := st.CreateRoll(context.Background(), &store.Roll{UserID: user.ID, FilmStockID: 9999})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDevelopmentUniquePerRoll(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	stock := testsupport.NewFilmStock(t, st, user.ID, "Portra 400", 36, 2)
	roll, err := st.CreateRoll(ctx, &store.Roll{UserID: user.ID, FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}

	first, err := st.SaveRollDevelopment(ctx, &store.RollDevelopment{
		RollID:  roll.ID,
		DevType: store.DevTypeLab,
		LabName: "Acme Lab",
	}, nil)
	if err != nil {
		t.Fatalf("SaveRollDevelopment: %v", err)
	}

	_, err = st.SaveRollDevelopment(ctx, &store.RollDevelopment{
		RollID:  roll.ID,
		DevType: store.DevTypeSelf,
	}, nil)
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict on duplicate insert, got %v", err)
	}

	// Original record untouched by the failed insert.
	existing, err := st.GetRollDevelopmentByRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("GetRollDevelopmentByRoll: %v", err)
	}
	if existing == nil || existing.ID != first.ID || existing.LabName != "Acme Lab" {
		t.Fatalf("original record changed: %+v", existing)
	}
}

func TestSaveDevelopmentReplacesSteps(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	stock := testsupport.NewFilmStock(t, st, user.ID, "FP4 Plus", 36, 2)
	roll, err := st.CreateRoll(ctx, &store.Roll{UserID: user.ID, FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}

	duration := func(v int64) *int64 { return &v }
	dev, err := st.SaveRollDevelopment(ctx, &store.RollDevelopment{
		RollID:      roll.ID,
		DevType:     store.DevTypeSelf,
		ProcessType: "B&W",
	}, []store.DevelopmentStep{
		{ChemicalName: "Developer", Temperature: "20C", DurationSeconds: duration(480)},
		{ChemicalName: "Stop", Temperature: "20C", DurationSeconds: duration(60)},
		{ChemicalName: "Fixer", Temperature: "20C", DurationSeconds: duration(300)},
	})
	if err != nil {
		t.Fatalf("SaveRollDevelopment: %v", err)
	}

	resaved, err := st.SaveRollDevelopment(ctx, dev, []store.DevelopmentStep{
		{ChemicalName: "Monobath", Temperature: "24C", DurationSeconds: duration(360)},
	})
	if err != nil {
		t.Fatalf("re-save: %v", err)
	}
	if resaved.ID != dev.ID {
		t.Fatalf("expected same record id, got %d and %d", dev.ID, resaved.ID)
	}

	steps, err := st.DevelopmentSteps(ctx, resaved.ID)
	if err != nil {
		t.Fatalf("DevelopmentSteps: %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("expected steps replaced, got %d", len(steps))
	}
	if steps[0].StepOrder != 0 || steps[0].ChemicalName != "Monobath" {
		t.Fatalf("unexpected step %+v", steps[0])
	}
}

func TestStepOrderIsDense(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	stock := testsupport.NewFilmStock(t, st, user.ID, "Delta 100", 36, 2)
	roll, err := st.CreateRoll(ctx, &store.Roll{UserID: user.ID, FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}

	dev, err := st.SaveRollDevelopment(ctx, &store.RollDevelopment{
		RollID: roll.ID, DevType: store.DevTypeSelf,
	}, []store.DevelopmentStep{
		{ChemicalName: "Developer", StepOrder: 7},
		{ChemicalName: "Fixer", StepOrder: 3},
	})
	if err != nil {
		t.Fatalf("SaveRollDevelopment: %v", err)
	}

	steps, err := st.DevelopmentSteps(ctx, dev.ID)
	if err != nil {
		t.Fatalf("DevelopmentSteps: %v", err)
	}
	for i, step := range steps {
		if step.StepOrder != i {
			t.Fatalf("step %d has order %d, want %d", i, step.StepOrder, i)
		}
	}
	if steps[0].ChemicalName != "Developer" || steps[1].ChemicalName != "Fixer" {
		t.Fatalf("slice position not preserved: %+v", steps)
	}
}

func TestDeleteRollCascades(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	stock := testsupport.NewFilmStock(t, st, user.ID, "Ektar 100", 36, 5)
	roll, err := st.CreateRoll(ctx, &store.Roll{UserID: user.ID, FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}
	dev, err := st.SaveRollDevelopment(ctx, &store.RollDevelopment{
		RollID: roll.ID, DevType: store.DevTypeLab, LabName: "Acme Lab",
	}, []store.DevelopmentStep{{ChemicalName: "C-41 kit"}})
	if err != nil {
		t.Fatalf("SaveRollDevelopment: %v", err)
	}

	if err := st.DeleteRoll(ctx, roll.ID); err != nil {
		t.Fatalf("DeleteRoll: %v", err)
	}

	frames, err := st.FramesForRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("FramesForRoll: %v", err)
	}
	if len(frames) != 0 {
		t.Fatalf("expected frames removed, got %d", len(frames))
	}
	existing, err := st.GetRollDevelopmentByRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("GetRollDevelopmentByRoll: %v", err)
	}
	if existing != nil {
		t.Fatalf("expected development cascade-deleted, got %+v", existing)
	}
	steps, err := st.DevelopmentSteps(ctx, dev.ID)
	if err != nil {
		t.Fatalf("DevelopmentSteps: %v", err)
	}
	if len(steps) != 0 {
		t.Fatalf("expected steps cascade-deleted, got %d", len(steps))
	}

	// Deletion never restores stock quantity.
	updated, err := st.GetFilmStock(ctx, stock.ID)
	if err != nil {
		t.Fatalf("GetFilmStock: %v", err)
	}
	if updated.QuantityOnHand != 4 {
		t.Fatalf("expected quantity 4 after delete, got %d", updated.QuantityOnHand)
	}
}

func TestSetRollFramesLens(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	stock := testsupport.NewFilmStock(t, st, user.ID, "Acros II", 36, 2)
	lens := testsupport.NewLens(t, st, user.ID, "35mm f/2")
	roll, err := st.CreateRoll(ctx, &store.Roll{UserID: user.ID, FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}

	if err := st.SetRollFramesLens(ctx, roll.ID, &lens.ID); err != nil {
		t.Fatalf("SetRollFramesLens: %v", err)
	}
	frames, err := st.FramesForRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("FramesForRoll: %v", err)
	}
	for _, frame := range frames {
		if frame.LensID == nil || *frame.LensID != lens.ID {
			t.Fatalf("frame %d missing lens", frame.FrameNumber)
		}
	}

	if err := st.SetRollFramesLens(ctx, roll.ID, nil); err != nil {
		t.Fatalf("clear lens: %v", err)
	}
	frames, err = st.FramesForRoll(ctx, roll.ID)
	if err != nil {
		t.Fatalf("FramesForRoll: %v", err)
	}
	for _, frame := range frames {
		if frame.LensID != nil {
			t.Fatalf("frame %d lens not cleared", frame.FrameNumber)
		}
	}
}

func TestUpdateFrameFields(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	stock := testsupport.NewFilmStock(t, st, user.ID, "Provia 100F", 12, 2)
	roll, err := st.CreateRoll(ctx, &store.Roll{UserID: user.ID, FilmStockID: stock.ID})
	if err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}

	frame, err := st.GetFrame(ctx, roll.ID, 3)
	if err != nil {
		t.Fatalf("GetFrame: %v", err)
	}
	rating := int64(4)
	frame.Subject = "Harbor at dusk"
	frame.Aperture = "f/8"
	frame.ShutterSpeed = "1/250"
	frame.Rating = &rating
	if err := st.UpdateFrame(ctx, frame); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}

	reread, err := st.GetFrame(ctx, roll.ID, 3)
	if err != nil {
		t.Fatalf("GetFrame: %v", err)
	}
	if reread.Subject != "Harbor at dusk" || reread.Aperture != "f/8" || reread.Rating == nil || *reread.Rating != 4 {
		t.Fatalf("frame edits lost: %+v", reread)
	}
}

func TestRecipeRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")

	duration := func(v int64) *int64 { return &v }
	recipe, err := st.SaveDevRecipe(ctx, &store.DevRecipe{
		UserID:      user.ID,
		Name:        "HP5 in DD-X",
		ProcessType: "B&W",
	}, []store.DevRecipeStep{
		{ChemicalName: "DD-X 1+4", Temperature: "20C", DurationSeconds: duration(540)},
		{ChemicalName: "Fixer", Temperature: "20C", DurationSeconds: duration(300)},
	})
	if err != nil {
		t.Fatalf("SaveDevRecipe: %v", err)
	}

	recipes, err := st.ListDevRecipes(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListDevRecipes: %v", err)
	}
	if len(recipes) != 1 || recipes[0].Name != "HP5 in DD-X" {
		t.Fatalf("unexpected recipes %+v", recipes)
	}

	steps, err := st.DevRecipeSteps(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("DevRecipeSteps: %v", err)
	}
	if len(steps) != 2 || steps[0].StepOrder != 0 || steps[1].StepOrder != 1 {
		t.Fatalf("unexpected steps %+v", steps)
	}

	if err := st.DeleteDevRecipe(ctx, recipe.ID); err != nil {
		t.Fatalf("DeleteDevRecipe: %v", err)
	}
	remaining, err := st.DevRecipeSteps(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("DevRecipeSteps: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected recipe steps cascade-deleted, got %d", len(remaining))
	}
}

func TestDuplicateUsernameConflicts(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if _, err := st.CreateUser(ctx, "admin", "x"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := st.CreateUser(ctx, "admin", "y"); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLowFilmStocks(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	user := testsupport.NewUser(t, st, "tester")
	testsupport.NewFilmStock(t, st, user.ID, "Plenty", 36, 10)
	testsupport.NewFilmStock(t, st, user.ID, "Low", 36, 1)
	testsupport.NewFilmStock(t, st, user.ID, "Gone", 36, 0)

	entries, err := st.LowFilmStocks(ctx, user.ID, 2)
	if err != nil {
		t.Fatalf("LowFilmStocks: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 low entries, got %d", len(entries))
	}
	if entries[0].Stock.Name != "Gone" || !entries[0].OutOfStock {
		t.Fatalf("expected out-of-stock entry first, got %+v", entries[0])
	}
	if entries[1].Stock.Name != "Low" || entries[1].OutOfStock {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}

func TestStatusOrdering(t *testing.T) {
	sequence := store.AllStatuses()
	if sequence[0] != store.StatusFresh || sequence[len(sequence)-1] != store.StatusDeveloped {
		t.Fatalf("unexpected sequence %v", sequence)
	}
	for i := 0; i < len(sequence)-1; i++ {
		next, ok := sequence[i].Next()
		if !ok || next != sequence[i+1] {
			t.Fatalf("Next(%s) = %s, want %s", sequence[i], next, sequence[i+1])
		}
	}
	if _, ok := store.StatusDeveloped.Next(); ok {
		t.Fatal("developed must be terminal")
	}
	if _, ok := store.ParseStatus("bogus"); ok {
		t.Fatal("bogus status accepted")
	}
}
