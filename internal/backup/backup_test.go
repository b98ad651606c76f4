package backup_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"filmlog/internal/backup"
	"filmlog/internal/testsupport"
)

type recordedUpload struct {
	path          string
	authorization string
	body          []byte
}

func newDropboxStub(t *testing.T, recorded *recordedUpload) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/files/upload" {
			http.NotFound(w, r)
			return
		}
		var arg struct {
			Path string `json:"path"`
			Mode string `json:"mode"`
		}
		if err := json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &arg); err != nil {
			http.Error(w, "bad arg", http.StatusBadRequest)
			return
		}
		if arg.Mode != "overwrite" {
			http.Error(w, "bad mode", http.StatusBadRequest)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body", http.StatusInternalServerError)
			return
		}
		recorded.path = arg.Path
		recorded.authorization = r.Header.Get("Authorization")
		recorded.body = body

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"name":         "filmlog.db",
			"path_display": arg.Path,
			"size":         len(body),
		})
	}))
}

// rewriteDoer points the production client at the stub server.
type rewriteDoer struct {
	base string
}

func (d rewriteDoer) Do(req *http.Request) (*http.Response, error) {
	rewritten := strings.Replace(req.URL.String(), "https://content.dropboxapi.com", d.base, 1)
	clone, err := http.NewRequestWithContext(req.Context(), req.Method, rewritten, req.Body)
	if err != nil {
		return nil, err
	}
	clone.Header = req.Header
	return http.DefaultClient.Do(clone)
}

func TestRunUploadsSnapshotAndRecordsSync(t *testing.T) {
	var recorded recordedUpload
	server := newDropboxStub(t, &recorded)
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithDropbox("test-token", "/backups"))
	st := testsupport.MustOpenStore(t, cfg)
	user := testsupport.NewUser(t, st, "tester")

	client := backup.NewDropboxClient("test-token", time.Second, rewriteDoer{base: server.URL})
	runner := backup.NewRunner(cfg, st, client, nil)

	result, err := runner.Run(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if recorded.authorization != "Bearer test-token" {
		t.Fatalf("authorization = %q", recorded.authorization)
	}
	if !strings.HasPrefix(recorded.path, "/backups/filmlog-") || !strings.HasSuffix(recorded.path, ".db") {
		t.Fatalf("remote path = %q", recorded.path)
	}
	if len(recorded.body) == 0 {
		t.Fatal("snapshot body empty")
	}
	if result.RemotePath != recorded.path || result.SnapshotID == "" {
		t.Fatalf("unexpected result %+v", result)
	}

	last, err := runner.LastSync(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("LastSync: %v", err)
	}
	if last == nil {
		t.Fatal("sync time not recorded")
	}
}

func TestRunRequiresEnabledDropbox(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	user := testsupport.NewUser(t, st, "tester")

	runner := backup.NewRunner(cfg, st, nil, nil)
	if _, err := runner.Run(context.Background(), user.ID); err == nil {
		t.Fatal("expected error when dropbox is disabled")
	}
}

func TestUploadSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_summary": "invalid_access_token/"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := backup.NewDropboxClient("bad-token", time.Second, rewriteDoer{base: server.URL})
	_, err := client.Upload(context.Background(), "/backups", "filmlog.db", strings.NewReader("data"))
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected status error, got %v", err)
	}
}
