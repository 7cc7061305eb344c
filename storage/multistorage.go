package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ruteri/shamir-reconstruct/interfaces"
)

// MultiStorageBackend fans stores out to every available backend and serves
// fetches from the first backend that has the object.
type MultiStorageBackend struct {
	backends []interfaces.StorageBackend
	log      *slog.Logger
}

func NewMultiStorageBackend(backends []interfaces.StorageBackend, logger *slog.Logger) *MultiStorageBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &MultiStorageBackend{backends: backends, log: logger}
}

// Fetch tries backends in order. It reports ErrContentNotFound only when every
// available backend answered "not found"; any other failure makes the
// combined error wrap ErrBackendUnavailable.
func (m *MultiStorageBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	start := time.Now()
	var errs []error
	notFound := 0

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			m.log.Debug("Backend unavailable",
				slog.String("backend_name", backend.Name()),
				slog.String("content_id", id.Short()))
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), interfaces.ErrBackendUnavailable))
			continue
		}

		data, err := backend.Fetch(ctx, id, contentType)
		if err == nil {
			m.log.Debug("Fetched content",
				slog.String("backend_name", backend.Name()),
				slog.String("content_id", id.Short()),
				slog.Duration("duration", time.Since(start)))
			return data, nil
		}

		if errors.Is(err, interfaces.ErrContentNotFound) {
			notFound++
		}
		errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
		m.log.Debug("Failed to fetch from backend",
			slog.String("backend_name", backend.Name()),
			slog.String("content_id", id.Short()),
			"err", err)
	}

	if len(m.backends) > 0 && notFound == len(m.backends) {
		return nil, interfaces.ErrContentNotFound
	}

	m.log.Warn("All backends failed to fetch content",
		slog.String("content_id", id.Short()),
		slog.Int("failed_backends", len(errs)))

	return nil, fmt.Errorf("%w: all backends failed to fetch %s: %w",
		interfaces.ErrBackendUnavailable, id.Short(), errors.Join(errs...))
}

// Store succeeds when at least one backend accepted the data. Read-only
// backends are skipped silently.
func (m *MultiStorageBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	id := interfaces.ComputeID(data)
	stored := 0
	var errs []error

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			m.log.Debug("Backend unavailable", slog.String("backend_name", backend.Name()))
			continue
		}

		got, err := backend.Store(ctx, data, contentType)
		if errors.Is(err, interfaces.ErrReadOnlyBackend) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			m.log.Warn("Failed to store to backend",
				slog.String("backend_name", backend.Name()),
				"err", err)
			continue
		}
		if !got.Equal(id) {
			m.log.Error("Backend returned unexpected content id",
				slog.String("backend_name", backend.Name()),
				slog.String("expected_id", id.String()),
				slog.String("actual_id", got.String()))
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), ErrContentMismatch))
			continue
		}
		stored++
	}

	if stored == 0 {
		return id, fmt.Errorf("%w: no backend stored %s: %w",
			interfaces.ErrBackendUnavailable, id.Short(), errors.Join(errs...))
	}

	m.log.Info("Stored content",
		slog.String("content_id", id.String()),
		slog.String("content_type", contentType.String()),
		slog.Int("backends", stored))

	return id, nil
}

func (m *MultiStorageBackend) Available(ctx context.Context) bool {
	for _, backend := range m.backends {
		if backend.Available(ctx) {
			return true
		}
	}
	return false
}

func (m *MultiStorageBackend) Name() string {
	return "multi-storage"
}

func (m *MultiStorageBackend) LocationURI() string {
	locations := make([]string, 0, len(m.backends))
	for _, backend := range m.backends {
		locations = append(locations, backend.LocationURI())
	}
	return "multi:[" + strings.Join(locations, ",") + "]"
}

// Close closes every backend that holds resources.
func (m *MultiStorageBackend) Close() error {
	var errs []error
	for _, backend := range m.backends {
		if c, ok := backend.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
