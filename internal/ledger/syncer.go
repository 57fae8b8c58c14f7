// Package ledger keeps the local ledger cache in step with its remote copy.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"collapse/internal/log"
)

// Syncer downloads the remote ledger and decides whether it replaces the
// local cache.
type Syncer struct {
	httpClient *http.Client
	clock      clockwork.Clock
	logger     *log.Logger
}

// NewSyncer creates a Syncer. A zero timeout keeps the transport default,
// i.e. no deadline beyond the one carried by the context.
func NewSyncer(timeout time.Duration, logger *log.Logger) *Syncer {
	return &Syncer{
		httpClient: &http.Client{Timeout: timeout},
		clock:      clockwork.NewRealClock(),
		logger:     logger.WithComponent(log.ComponentSync),
	}
}

// Sync fetches remoteURL in full and overwrites localPath when the payload
// is larger than the current file. Every failure is folded into a
// FetchFailed outcome.
func (s *Syncer) Sync(ctx context.Context, remoteURL, localPath string) Outcome {
	start := s.clock.Now()

	outcome := s.sync(ctx, remoteURL, localPath)
	outcome.Duration = s.clock.Since(start)

	fields := log.NewFields().
		WithOperation(log.OpSync).
		WithSync(string(outcome.Kind), outcome.RemoteSize, outcome.LocalSize, outcome.Duration.Milliseconds())
	fields[log.FieldPath] = localPath

	if outcome.Failed() {
		fields[log.FieldError] = outcome.Reason
		fields[log.FieldErrorType] = log.ErrorTypeNetwork
		s.logger.WarnContext(ctx, "Ledger sync failed, continuing with local cache", fields.ToSlice()...)
		return outcome
	}

	s.logger.InfoContext(ctx, "Ledger sync finished", fields.ToSlice()...)
	return outcome
}

func (s *Syncer) sync(ctx context.Context, remoteURL, localPath string) Outcome {
	payload, err := s.fetch(ctx, remoteURL)
	if err != nil {
		return Outcome{Kind: FetchFailed, Reason: err.Error()}
	}
	remoteSize := int64(len(payload))

	localSize, err := fileSize(localPath)
	if err != nil {
		return Outcome{Kind: FetchFailed, RemoteSize: remoteSize, Reason: err.Error()}
	}

	if !ShouldReplace(remoteSize, localSize) {
		return Outcome{Kind: UpToDate, RemoteSize: remoteSize, LocalSize: localSize}
	}

	s.logger.InfoContext(ctx, "Downloading newer ledger",
		log.FieldRemoteSize, remoteSize,
		log.FieldLocalSize, localSize,
		log.FieldPath, localPath)

	if err := writeFile(localPath, payload); err != nil {
		return Outcome{Kind: FetchFailed, RemoteSize: remoteSize, LocalSize: localSize, Reason: err.Error()}
	}

	return Outcome{Kind: Replaced, RemoteSize: remoteSize, LocalSize: localSize}
}

func (s *Syncer) fetch(ctx context.Context, remoteURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download ledger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download ledger: unexpected status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ledger body: %w", err)
	}
	return payload, nil
}

// fileSize returns the size of path, or 0 when it does not exist.
func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat local cache: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("local cache %s is a directory", path)
	}
	return info.Size(), nil
}

// writeFile replaces path with data through a temporary file in the same
// directory, so a failed write leaves the previous cache intact.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace local cache: %w", err)
	}
	return nil
}
