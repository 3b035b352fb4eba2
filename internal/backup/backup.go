// Package backup writes the pipeline's side-channel artifacts: run summaries,
// an append-only audit log and local mirrors of binary assets. All of it is
// non-critical; failures are logged by callers and never fail a run.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"catalog/internal/logger"
)

type Writer struct {
	dir        string
	log        *logger.Logger
	httpClient *http.Client
}

func NewWriter(dir string, log *logger.Logger) (*Writer, error) {
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup dir %s: %w", dir, err)
	}
	return &Writer{
		dir: dir,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// WriteSummary stores the run report as a timestamped JSON file.
func (w *Writer) WriteSummary(report interface{}) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	name := fmt.Sprintf("summary-%s.json", time.Now().Format("20060102-150405"))
	target := filepath.Join(w.dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", target, err)
	}

	w.log.Info("Run summary written to %s", target)
	return nil
}

// AppendAudit appends one JSON line to the audit log.
func (w *Writer) AppendAudit(entry []byte) error {
	f, err := os.OpenFile(filepath.Join(w.dir, "audit.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(entry, '\n')); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// MirrorAsset downloads a binary asset into the local assets directory and
// returns the local path. Already-mirrored assets are skipped.
func (w *Writer) MirrorAsset(ctx context.Context, url string) (string, error) {
	name := path.Base(url)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("cannot derive file name from %q", url)
	}
	target := filepath.Join(w.dir, "assets", name)

	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch asset %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("asset fetch failed: %s", resp.Status)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}

	w.log.Debug("Mirrored asset %s to %s", url, target)
	return target, nil
}
