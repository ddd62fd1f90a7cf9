// Package di contains dependency injection tokens for the chain context.
package di

import (
	"github.com/fd1az/crosschain-cycler/business/chain/app"
	"github.com/fd1az/crosschain-cycler/business/chain/infra/evm"
	"github.com/fd1az/crosschain-cycler/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Accounts      = di.NewToken[*app.AccountService]("chain.Accounts")
	Networks      = di.NewToken[app.Networks]("chain.Networks")
	SessionOpener = di.NewToken[app.SessionOpener]("chain.SessionOpener")
	BaseGasOracle = di.NewToken[*evm.GasOracle]("chain.BaseGasOracle")
	KiteGasOracle = di.NewToken[*evm.GasOracle]("chain.KiteGasOracle")
)

// Private dependency tokens - internal to chain module
var (
	KeySource = di.NewToken[app.KeySource]("chain:keySource")
)

// Helper functions for type-safe access
func GetAccounts(c di.ServiceRegistry) *app.AccountService {
	return di.GetToken(c, Accounts)
}

func GetNetworks(c di.ServiceRegistry) app.Networks {
	return di.GetToken(c, Networks)
}

func GetSessionOpener(c di.ServiceRegistry) app.SessionOpener {
	return di.GetToken(c, SessionOpener)
}

func GetBaseGasOracle(c di.ServiceRegistry) *evm.GasOracle {
	return di.GetToken(c, BaseGasOracle)
}

func GetKiteGasOracle(c di.ServiceRegistry) *evm.GasOracle {
	return di.GetToken(c, KiteGasOracle)
}

func GetKeySource(c di.ServiceRegistry) app.KeySource {
	return di.GetToken(c, KeySource)
}
