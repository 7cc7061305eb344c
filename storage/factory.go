package storage

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ruteri/shamir-reconstruct/interfaces"
)

// StorageBackendFactory builds backends from location URIs.
type StorageBackendFactory struct {
	log *slog.Logger
}

func NewStorageBackendFactory(logger *slog.Logger) *StorageBackendFactory {
	return &StorageBackendFactory{log: logger}
}

var _ interfaces.StorageBackendFactory = (*StorageBackendFactory)(nil)

func (sf *StorageBackendFactory) StorageBackendFor(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating storage backend", slog.String("scheme", loc.Scheme), slog.String("host", loc.Host))

	switch loc.Scheme {
	case "file":
		return sf.createFileBackend(loc)
	case "s3":
		return sf.createS3Backend(loc)
	case "ipfs":
		return sf.createIPFSBackend(loc)
	case "vault":
		return sf.createVaultBackend(loc)
	case "github":
		return sf.createGitHubBackend(loc)
	case "badger":
		return NewBadgerBackend(hostPath(loc), loc.GetParamBool("inmemory"), sf.log)
	default:
		return nil, fmt.Errorf("%w: unsupported backend scheme %q", interfaces.ErrInvalidLocationURI, loc.Scheme)
	}
}

// CreateMultiBackend skips locations that fail to build and errors only when
// none could be built.
func (sf *StorageBackendFactory) CreateMultiBackend(locations []interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	backends := make([]interfaces.StorageBackend, 0, len(locations))

	for _, loc := range locations {
		backend, err := sf.StorageBackendFor(loc)
		if err != nil {
			sf.log.Warn("Failed to create storage backend", "err", err, slog.String("scheme", loc.Scheme))
			continue
		}
		backends = append(backends, backend)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("%w: no valid storage backends created", interfaces.ErrInvalidLocationURI)
	}

	return NewMultiStorageBackend(backends, sf.log), nil
}

// ParseLocations parses a list of location URIs.
func ParseLocations(uris []string) ([]interfaces.StorageBackendLocation, error) {
	locations := make([]interfaces.StorageBackendLocation, 0, len(uris))
	for _, uri := range uris {
		loc, err := interfaces.NewStorageBackendLocation(uri)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

// file:///abs/path or file://./relative/path
func (sf *StorageBackendFactory) createFileBackend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	return NewFileBackend(hostPath(loc), sf.log)
}

// s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix?region=...&endpoint=...
func (sf *StorageBackendFactory) createS3Backend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	cfg := S3Config{
		Bucket:   loc.Host,
		Prefix:   loc.Path,
		Region:   loc.GetParam("region"),
		Endpoint: loc.GetParam("endpoint"),
	}
	if loc.User != nil {
		cfg.AccessKey = loc.User.Username()
		cfg.SecretKey, _ = loc.User.Password()
	}
	return NewS3Backend(cfg, sf.log)
}

// ipfs://host:port/root?timeout=30s
func (sf *StorageBackendFactory) createIPFSBackend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	addr := loc.Host
	if addr == "" {
		addr = "127.0.0.1:5001"
	} else if !strings.Contains(addr, ":") {
		addr += ":5001"
	}

	timeout := 30 * time.Second
	if raw := loc.GetParam("timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid ipfs timeout %q", interfaces.ErrInvalidLocationURI, raw)
		}
		timeout = d
	}

	return NewIPFSBackend(addr, loc.Path, timeout, sf.log), nil
}

// vault://host:port/mount/path?token=...&tls=false
func (sf *StorageBackendFactory) createVaultBackend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	scheme := "https"
	if loc.GetParam("tls") == "false" {
		scheme = "http"
	}

	mount, path, _ := strings.Cut(strings.Trim(loc.Path, "/"), "/")
	return NewVaultBackend(VaultConfig{
		Address: fmt.Sprintf("%s://%s", scheme, loc.Host),
		Mount:   mount,
		Path:    path,
		Token:   loc.GetParam("token"),
	}, sf.log)
}

// github://owner/repo/dir?ref=main&token=...
func (sf *StorageBackendFactory) createGitHubBackend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	repo, dir, _ := strings.Cut(strings.Trim(loc.Path, "/"), "/")
	if loc.Host == "" || repo == "" {
		return nil, fmt.Errorf("%w: expected github://owner/repo[/dir]", interfaces.ErrInvalidLocationURI)
	}

	backend := NewGitHubBackend(loc.Host, repo, dir, loc.GetParam("ref"), loc.GetParam("token"), sf.log)
	if api := loc.GetParam("api"); api != "" {
		backend.WithAPIBase(api)
	}
	return backend, nil
}

// hostPath joins host and path so that both file:///abs and file://./rel work.
func hostPath(loc interfaces.StorageBackendLocation) string {
	if loc.Host == "" {
		return loc.Path
	}
	return loc.Host + "/" + strings.TrimPrefix(loc.Path, "/")
}
