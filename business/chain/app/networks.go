package app

import (
	"fmt"
	"math/big"

	"github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/internal/config"
)

// Networks holds both chains the cycler moves value between.
type Networks struct {
	Base domain.Network
	Kite domain.Network
}

// NetworksFromConfig builds the network descriptors.
func NetworksFromConfig(cfg *config.Config) Networks {
	return Networks{
		Base: domain.Network{
			Key:         domain.NetworkBase,
			Name:        cfg.Networks.Base.Name,
			ChainID:     new(big.Int).SetUint64(cfg.Networks.Base.ChainID),
			RPCURL:      cfg.RPC.BaseURL,
			MaxGasPrice: cfg.Networks.Base.MaxGasPriceWei(),
		},
		Kite: domain.Network{
			Key:         domain.NetworkKite,
			Name:        cfg.Networks.Kite.Name,
			ChainID:     new(big.Int).SetUint64(cfg.Networks.Kite.ChainID),
			RPCURL:      cfg.RPC.KiteURL,
			MaxGasPrice: cfg.Networks.Kite.MaxGasPriceWei(),
		},
	}
}

// ByKey returns the network named key.
func (n Networks) ByKey(key string) (domain.Network, error) {
	switch key {
	case domain.NetworkBase:
		return n.Base, nil
	case domain.NetworkKite:
		return n.Kite, nil
	}
	return domain.Network{}, fmt.Errorf("unknown network %q", key)
}
