// Package keystore provides private key sources.
package keystore

import (
	"context"
	"strings"

	"github.com/fd1az/crosschain-cycler/business/chain/app"
)

// EnvSource returns keys already loaded into configuration (PRIVATE_KEYS).
type EnvSource struct {
	keys []string
}

var _ app.KeySource = (*EnvSource)(nil)

// NewEnvSource creates an EnvSource.
func NewEnvSource(keys []string) *EnvSource {
	return &EnvSource{keys: keys}
}

// Keys returns the non-empty configured keys.
func (s *EnvSource) Keys(context.Context) ([]string, error) {
	return splitKeys(s.keys...), nil
}

// Name identifies the source.
func (s *EnvSource) Name() string {
	return "env"
}

// splitKeys flattens comma separated values and drops blanks.
func splitKeys(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}
