package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const stockColumns = "id, user_id, brand, name, type, media_type, iso, format, frames_per_roll, quantity_on_hand, notes, created_at"

func scanStock(scanner interface{ Scan(dest ...any) error }) (*FilmStock, error) {
	var (
		id         int64
		userID     int64
		brand      sql.NullString
		name       string
		kind       sql.NullString
		mediaType  string
		iso        sql.NullInt64
		format     sql.NullString
		frames     int
		quantity   int
		notes      sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(&id, &userID, &brand, &name, &kind, &mediaType, &iso, &format, &frames, &quantity, &notes, &createdRaw); err != nil {
		return nil, err
	}

	stock := &FilmStock{
		ID:             id,
		UserID:         userID,
		Brand:          brand.String,
		Name:           name,
		Type:           kind.String,
		MediaType:      mediaType,
		Format:         format.String,
		FramesPerRoll:  frames,
		QuantityOnHand: quantity,
		Notes:          notes.String,
	}
	if iso.Valid {
		v := iso.Int64
		stock.ISO = &v
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		stock.CreatedAt = created
	}
	return stock, nil
}

// CreateFilmStock inserts a new inventory entry and returns it with its
// assigned id.
func (s *Store) CreateFilmStock(ctx context.Context, stock *FilmStock) (*FilmStock, error) {
	if stock == nil {
		return nil, wrap(ErrValidation, "create film stock: nil stock", nil)
	}
	if stock.Name == "" {
		return nil, wrap(ErrValidation, "create film stock: name required", nil)
	}
	if stock.QuantityOnHand < 0 {
		return nil, wrap(ErrValidation, "create film stock: quantity must be >= 0", nil)
	}
	mediaType := stock.MediaType
	if mediaType == "" {
		mediaType = MediaAnalog
	}

	res, err := s.execWithRetry(ctx, `
		INSERT INTO film_stocks (user_id, brand, name, type, media_type, iso, format, frames_per_roll, quantity_on_hand, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stock.UserID,
		nullableString(stock.Brand),
		stock.Name,
		nullableString(stock.Type),
		mediaType,
		nullableInt64(stock.ISO),
		nullableString(stock.Format),
		stock.FramesPerRoll,
		stock.QuantityOnHand,
		nullableString(stock.Notes),
		timestamp(time.Now()),
	)
	if err != nil {
		return nil, classify("create film stock", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, classify("create film stock: last insert id", err)
	}
	return s.GetFilmStock(ctx, id)
}

// GetFilmStock fetches one inventory entry by id.
func (s *Store) GetFilmStock(ctx context.Context, id int64) (*FilmStock, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+stockColumns+" FROM film_stocks WHERE id = ?", id)
	stock, err := scanStock(row)
	if err != nil {
		return nil, classify(fmt.Sprintf("get film stock %d", id), err)
	}
	return stock, nil
}

// ListFilmStocks returns all inventory entries for a user, newest first.
func (s *Store) ListFilmStocks(ctx context.Context, userID int64) ([]*FilmStock, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+stockColumns+" FROM film_stocks WHERE user_id = ? ORDER BY id DESC", userID)
	if err != nil {
		return nil, classify("list film stocks", err)
	}
	defer rows.Close()

	var stocks []*FilmStock
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, classify("scan film stock", err)
		}
		stocks = append(stocks, stock)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate film stocks", err)
	}
	return stocks, nil
}

// UpdateFilmStock persists field edits on an existing entry.
func (s *Store) UpdateFilmStock(ctx context.Context, stock *FilmStock) error {
	if stock == nil || stock.ID == 0 {
		return wrap(ErrValidation, "update film stock: missing id", nil)
	}
	if stock.QuantityOnHand < 0 {
		return wrap(ErrValidation, "update film stock: quantity must be >= 0", nil)
	}
	res, err := s.execWithRetry(ctx, `
		UPDATE film_stocks
		SET brand = ?, name = ?, type = ?, media_type = ?, iso = ?, format = ?, frames_per_roll = ?, quantity_on_hand = ?, notes = ?
		WHERE id = ?`,
		nullableString(stock.Brand),
		stock.Name,
		nullableString(stock.Type),
		stock.MediaType,
		nullableInt64(stock.ISO),
		nullableString(stock.Format),
		stock.FramesPerRoll,
		stock.QuantityOnHand,
		nullableString(stock.Notes),
		stock.ID,
	)
	if err != nil {
		return classify("update film stock", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("update film stock: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("update film stock %d", stock.ID), nil)
	}
	return nil
}

// DeleteFilmStock removes an inventory entry. Entries referenced by
// rolls are protected by the foreign key and surface as a conflict.
func (s *Store) DeleteFilmStock(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM film_stocks WHERE id = ?", id)
	if err != nil {
		return classify("delete film stock", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("delete film stock: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("delete film stock %d", id), nil)
	}
	return nil
}

// DecrementOnRollCreated lowers quantity_on_hand by one, floored at 0.
// Used standalone only in tests; roll creation performs the same update
// inside its transaction.
func (s *Store) DecrementOnRollCreated(ctx context.Context, stockID int64) error {
	err := s.execDecrement(ctx, s.db, stockID)
	if err != nil {
		return classify("decrement film stock", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execDecrement(ctx context.Context, ex execer, stockID int64) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE film_stocks
		SET quantity_on_hand = MAX(quantity_on_hand - 1, 0)
		WHERE id = ?`, stockID)
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
}

// LowStockEntry pairs an inventory entry with the threshold it fell
// below, for the stats alert projection.
type LowStockEntry struct {
	Stock      *FilmStock
	OutOfStock bool
}

// LowFilmStocks returns analog stocks at or below the threshold,
// lowest quantity first.
func (s *Store) LowFilmStocks(ctx context.Context, userID int64, threshold int) ([]LowStockEntry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+stockColumns+` FROM film_stocks
		WHERE user_id = ? AND media_type = ? AND quantity_on_hand <= ?
		ORDER BY quantity_on_hand ASC, name ASC`,
		userID, MediaAnalog, threshold)
	if err != nil {
		return nil, classify("list low film stocks", err)
	}
	defer rows.Close()

	var entries []LowStockEntry
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, classify("scan low film stock", err)
		}
		entries = append(entries, LowStockEntry{Stock: stock, OutOfStock: stock.QuantityOnHand == 0})
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate low film stocks", err)
	}
	return entries, nil
}
