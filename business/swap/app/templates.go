package app

import (
	"fmt"

	"github.com/fd1az/crosschain-cycler/business/swap/domain"
	"github.com/fd1az/crosschain-cycler/internal/config"
)

// Templates are the read-only instruction templates of both swap directions.
type Templates struct {
	USDTToKite domain.Instructions
	KiteToUSDT domain.Instructions
}

// LoadTemplates parses the configured templates.
func LoadTemplates(cfg config.SwapConfig) (Templates, error) {
	u2k, err := domain.FromConfig(cfg.USDTToKite)
	if err != nil {
		return Templates{}, fmt.Errorf("swap.usdt_to_kite: %w", err)
	}
	k2u, err := domain.FromConfig(cfg.KiteToUSDT)
	if err != nil {
		return Templates{}, fmt.Errorf("swap.kite_to_usdt: %w", err)
	}
	return Templates{USDTToKite: u2k, KiteToUSDT: k2u}, nil
}
