package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
)

const dropboxContentURL = "https://content.dropboxapi.com"

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// DropboxClient uploads files via the Dropbox content API.
type DropboxClient struct {
	baseURL     string
	accessToken string
	client      HTTPDoer
}

// NewDropboxClient constructs a client using the provided HTTP backend.
// A nil client falls back to a default with the given timeout.
func NewDropboxClient(accessToken string, timeout time.Duration, client HTTPDoer) *DropboxClient {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &DropboxClient{
		baseURL:     dropboxContentURL,
		accessToken: accessToken,
		client:      client,
	}
}

type uploadArg struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Mute bool   `json:"mute"`
}

type uploadResponse struct {
	Name        string `json:"name"`
	PathDisplay string `json:"path_display"`
	Size        int64  `json:"size"`
}

// Upload streams body to remoteFolder/name, overwriting any existing
// file at that path. It returns the file's display path on Dropbox.
func (c *DropboxClient) Upload(ctx context.Context, remoteFolder, name string, body io.Reader) (string, error) {
	arg, err := json.Marshal(uploadArg{
		Path: path.Join(remoteFolder, name),
		Mode: "overwrite",
		Mute: true,
	})
	if err != nil {
		return "", fmt.Errorf("encode upload arg: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.baseURL, "/")+"/2/files/upload", body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Dropbox-API-Arg", string(arg))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload to dropbox: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("dropbox upload failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return uploaded.PathDisplay, nil
}
