// Package di contains dependency injection tokens for the swap context.
package di

import (
	"github.com/fd1az/crosschain-cycler/business/swap/app"
	"github.com/fd1az/crosschain-cycler/business/swap/infra/router"
	"github.com/fd1az/crosschain-cycler/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Router    = di.NewToken[*router.Router]("swap.Router")
	Templates = di.NewToken[app.Templates]("swap.Templates")
)

func GetRouter(c di.ServiceRegistry) *router.Router {
	return di.GetToken(c, Router)
}

func GetTemplates(c di.ServiceRegistry) app.Templates {
	return di.GetToken(c, Templates)
}
