package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const userColumns = "id, username, password_hash, created_at"

func scanUser(scanner interface{ Scan(dest ...any) error }) (*User, error) {
	var (
		id           int64
		username     string
		passwordHash string
		createdRaw   string
	)
	if err := scanner.Scan(&id, &username, &passwordHash, &createdRaw); err != nil {
		return nil, err
	}
	user := &User{ID: id, Username: username, PasswordHash: passwordHash}
	if created, err := parseTimeString(createdRaw); err == nil {
		user.CreatedAt = created
	}
	return user, nil
}

// CreateUser inserts a new account. Duplicate usernames surface as a
// conflict.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	if username == "" {
		return nil, wrap(ErrValidation, "create user: username required", nil)
	}
	res, err := s.execWithRetry(ctx,
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, passwordHash, timestamp(time.Now()))
	if err != nil {
		return nil, classify("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, classify("create user: last insert id", err)
	}
	return s.GetUser(ctx, id)
}

// GetUser fetches one account by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		return nil, classify(fmt.Sprintf("get user %d", id), err)
	}
	return user, nil
}

// GetUserByUsername fetches one account by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err != nil {
		return nil, classify(fmt.Sprintf("get user %q", username), err)
	}
	return user, nil
}

// ListUsers returns all accounts ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]*User, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY username ASC")
	if err != nil {
		return nil, classify("list users", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, classify("scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate users", err)
	}
	return users, nil
}

// UpdatePasswordHash replaces an account's stored hash.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error {
	res, err := s.execWithRetry(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, userID)
	if err != nil {
		return classify("update password", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("update password: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("update password for user %d", userID), nil)
	}
	return nil
}

// DeleteUser removes an account. Accounts that own catalog rows are
// protected by the foreign keys.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return classify(fmt.Sprintf("delete user %d", id), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("delete user: rows affected", err)
	}
	if affected == 0 {
		return wrap(ErrNotFound, fmt.Sprintf("delete user %d", id), nil)
	}
	return nil
}

// EnsureUser returns the account with the given username, creating it
// with the provided hash when it does not exist yet.
func (s *Store) EnsureUser(ctx context.Context, username, passwordHash string) (*User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.CreateUser(ctx, username, passwordHash)
}

// RecordBackupSync stamps the user's last successful backup upload.
func (s *Store) RecordBackupSync(ctx context.Context, userID int64, provider string, syncedAt time.Time) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE cloud_settings SET provider = ?, last_sync = ? WHERE user_id = ?",
			provider, timestamp(syncedAt), userID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected > 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO cloud_settings (user_id, provider, last_sync) VALUES (?, ?, ?)",
			userID, provider, timestamp(syncedAt))
		return err
	})
	if err != nil {
		return classify("record backup sync", err)
	}
	return nil
}

// LastBackupSync returns the time of the user's last recorded backup
// upload, or nil when none has been recorded.
func (s *Store) LastBackupSync(ctx context.Context, userID int64) (*time.Time, error) {
	ctx = ensureContext(ctx)
	var lastSync sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT last_sync FROM cloud_settings WHERE user_id = ?", userID).Scan(&lastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get last backup sync", err)
	}
	if !lastSync.Valid || lastSync.String == "" {
		return nil, nil
	}
	synced, err := parseTimeString(lastSync.String)
	if err != nil {
		return nil, nil
	}
	return &synced, nil
}
