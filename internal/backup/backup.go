// Package backup uploads database snapshots to Dropbox and records the
// last successful sync per user.
package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"filmlog/internal/config"
	"filmlog/internal/store"
)

// Uploader is the transport the runner pushes snapshots through.
type Uploader interface {
	Upload(ctx context.Context, remoteFolder, name string, body io.Reader) (string, error)
}

// Runner snapshots the database file and uploads it.
type Runner struct {
	cfg      *config.Config
	store    *store.Store
	uploader Uploader
	logger   *slog.Logger
	clock    func() time.Time
}

// NewRunner constructs a backup runner. A nil uploader builds a Dropbox
// client from config; a nil logger discards output.
func NewRunner(cfg *config.Config, st *store.Store, uploader Uploader, logger *slog.Logger) *Runner {
	if uploader == nil {
		timeout := time.Duration(cfg.Dropbox.RequestTimeout) * time.Second
		uploader = NewDropboxClient(cfg.Dropbox.AccessToken, timeout, nil)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		cfg:      cfg,
		store:    st,
		uploader: uploader,
		logger:   logger,
		clock:    time.Now,
	}
}

// Result describes a completed backup upload.
type Result struct {
	SnapshotID string
	RemotePath string
	UploadedAt time.Time
}

// Run copies the database to a temp snapshot, uploads it, and records
// the sync time for the user. The snapshot name embeds a fresh uuid so
// concurrent or repeated uploads never clobber each other's in-flight
// copy; the remote file name stays stable per day.
func (r *Runner) Run(ctx context.Context, userID int64) (*Result, error) {
	if !r.cfg.Dropbox.Enabled {
		return nil, fmt.Errorf("dropbox backup is not enabled in the configuration")
	}

	snapshotID := uuid.NewString()
	now := r.clock()

	snapshotPath := filepath.Join(os.TempDir(), "filmlog-snapshot-"+snapshotID+".db")
	if err := copyFile(r.store.Path(), snapshotPath); err != nil {
		return nil, fmt.Errorf("snapshot database: %w", err)
	}
	defer os.Remove(snapshotPath)

	snapshot, err := os.Open(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer snapshot.Close()

	remoteName := fmt.Sprintf("filmlog-%s.db", now.Format("2006-01-02"))
	remotePath, err := r.uploader.Upload(ctx, r.cfg.Dropbox.RemoteFolder, remoteName, snapshot)
	if err != nil {
		return nil, err
	}

	if err := r.store.RecordBackupSync(ctx, userID, "dropbox", now); err != nil {
		return nil, err
	}

	r.logger.Info("backup uploaded", "remote_path", remotePath, "snapshot_id", snapshotID)
	return &Result{
		SnapshotID: snapshotID,
		RemotePath: remotePath,
		UploadedAt: now,
	}, nil
}

// LastSync reports the user's last recorded upload time, if any.
func (r *Runner) LastSync(ctx context.Context, userID int64) (*time.Time, error) {
	return r.store.LastBackupSync(ctx, userID)
}

func copyFile(sourcePath, targetPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	dest, err := os.OpenFile(targetPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return fmt.Errorf("copy data: %w", err)
	}
	if err := dest.Sync(); err != nil {
		dest.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	return dest.Close()
}
