package keystore

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"

	"github.com/fd1az/crosschain-cycler/business/chain/app"
	"github.com/fd1az/crosschain-cycler/internal/config"
)

// VaultSource reads comma separated keys from one field of a Vault secret.
// KV v2 secrets, which nest values under "data", are supported.
type VaultSource struct {
	client *vault.Client
	path   string
	field  string
}

var _ app.KeySource = (*VaultSource)(nil)

// NewVaultSource creates a Vault client from cfg.
func NewVaultSource(cfg config.VaultConfig) (*VaultSource, error) {
	vcfg := vault.DefaultConfig()
	if cfg.Address != "" {
		vcfg.Address = cfg.Address
	}

	client, err := vault.NewClient(vcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	field := cfg.Field
	if field == "" {
		field = "private_keys"
	}

	return &VaultSource{client: client, path: cfg.Path, field: field}, nil
}

// Keys reads the secret. A missing secret or field yields no keys.
func (s *VaultSource) Keys(ctx context.Context) ([]string, error) {
	secret, err := s.client.Logical().ReadWithContext(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from vault: %w", err)
	}
	if secret == nil {
		return nil, nil
	}

	return fieldKeys(secret.Data, s.field), nil
}

// Name identifies the source.
func (s *VaultSource) Name() string {
	return "vault:" + s.path
}

func fieldKeys(data map[string]any, field string) []string {
	if nested, ok := data["data"].(map[string]any); ok {
		data = nested
	}

	v, ok := data[field].(string)
	if !ok {
		return nil
	}
	return splitKeys(v)
}
