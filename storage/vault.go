package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"
	"github.com/ruteri/shamir-reconstruct/interfaces"
)

// VaultConfig points at a KV version 2 secrets engine.
type VaultConfig struct {
	// Address is the full server URL, e.g. https://vault.example.com:8200.
	Address string
	// Mount is the KV v2 mount, e.g. "secret".
	Mount string
	// Path is the directory inside the mount that holds the archive.
	Path string
	// Token is optional. When empty the client falls back to VAULT_TOKEN.
	Token string
}

// VaultBackend keeps each object as one KV entry with a single "content" field.
type VaultBackend struct {
	client *vault.Client
	cfg    VaultConfig
	log    *slog.Logger
}

func NewVaultBackend(cfg VaultConfig, log *slog.Logger) (*VaultBackend, error) {
	config := vault.DefaultConfig()
	if cfg.Address != "" {
		config.Address = cfg.Address
	}
	config.Timeout = 30 * time.Second

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	cfg.Address = config.Address
	cfg.Mount = strings.Trim(cfg.Mount, "/")
	cfg.Path = strings.Trim(cfg.Path, "/")
	if cfg.Mount == "" {
		return nil, fmt.Errorf("%w: missing Vault mount", interfaces.ErrInvalidLocationURI)
	}

	return &VaultBackend{client: client, cfg: cfg, log: log}, nil
}

func (b *VaultBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	start := time.Now()
	key := objectKey(b.cfg.Path, id, contentType)

	secret, err := b.client.KVv2(b.cfg.Mount).Get(ctx, key)
	if errors.Is(err, vault.ErrSecretNotFound) {
		return nil, interfaces.ErrContentNotFound
	}
	if err != nil {
		b.log.Error("Failed to read from Vault", slog.String("key", key), "err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	content, ok := secret.Data["content"].(string)
	if !ok {
		return nil, fmt.Errorf("vault entry %s has no string content field", key)
	}

	data := []byte(content)
	if err := verifyContent(id, data); err != nil {
		return nil, err
	}

	b.log.Debug("Fetched content from Vault",
		slog.String("content_id", id.Short()),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

func (b *VaultBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	id := interfaces.ComputeID(data)
	key := objectKey(b.cfg.Path, id, contentType)

	_, err := b.client.KVv2(b.cfg.Mount).Put(ctx, key, map[string]interface{}{
		"content": string(data),
	})
	if err != nil {
		b.log.Error("Failed to write to Vault", slog.String("key", key), "err", err)
		return id, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	b.log.Debug("Stored content in Vault", slog.String("content_id", id.String()))

	return id, nil
}

// Available requires the server to be initialized and unsealed.
func (b *VaultBackend) Available(ctx context.Context) bool {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := b.client.Sys().HealthWithContext(healthCtx)
	if err != nil {
		b.log.Debug("Vault health check failed", "err", err)
		return false
	}
	if !health.Initialized || health.Sealed {
		b.log.Debug("Vault is not available",
			slog.Bool("initialized", health.Initialized),
			slog.Bool("sealed", health.Sealed))
		return false
	}
	return true
}

func (b *VaultBackend) Name() string {
	return fmt.Sprintf("vault-%s-%s", b.cfg.Mount, b.cfg.Path)
}

func (b *VaultBackend) LocationURI() string {
	return fmt.Sprintf("vault://%s/%s/%s", strings.TrimPrefix(strings.TrimPrefix(b.cfg.Address, "https://"), "http://"), b.cfg.Mount, b.cfg.Path)
}
