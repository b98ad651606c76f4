package testsupport

import (
	"context"
	"testing"

	"filmlog/internal/config"
	"filmlog/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewUser creates a test account.
func NewUser(t testing.TB, st *store.Store, username string) *store.User {
	t.Helper()

	user, err := st.CreateUser(context.Background(), username, "x")
	if err != nil {
		t.Fatalf("store.CreateUser: %v", err)
	}
	return user
}

// NewFilmStock creates an inventory entry for tests.
func NewFilmStock(t testing.TB, st *store.Store, userID int64, name string, framesPerRoll, quantity int) *store.FilmStock {
	t.Helper()

	stock, err := st.CreateFilmStock(context.Background(), &store.FilmStock{
		UserID:         userID,
		Name:           name,
		MediaType:      store.MediaAnalog,
		FramesPerRoll:  framesPerRoll,
		QuantityOnHand: quantity,
	})
	if err != nil {
		t.Fatalf("store.CreateFilmStock: %v", err)
	}
	return stock
}

// NewCamera creates a camera for tests.
func NewCamera(t testing.TB, st *store.Store, userID int64, name string) *store.Camera {
	t.Helper()

	camera, err := st.CreateCamera(context.Background(), &store.Camera{UserID: userID, Name: name})
	if err != nil {
		t.Fatalf("store.CreateCamera: %v", err)
	}
	return camera
}

// NewLens creates a lens for tests.
func NewLens(t testing.TB, st *store.Store, userID int64, name string) *store.Lens {
	t.Helper()

	lens, err := st.CreateLens(context.Background(), &store.Lens{UserID: userID, Name: name})
	if err != nil {
		t.Fatalf("store.CreateLens: %v", err)
	}
	return lens
}
