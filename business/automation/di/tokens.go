// Package di contains dependency injection tokens for the automation context.
package di

import (
	"github.com/fd1az/crosschain-cycler/business/automation/app"
	"github.com/fd1az/crosschain-cycler/business/automation/infra/journal"
	"github.com/fd1az/crosschain-cycler/internal/di"
	"github.com/fd1az/crosschain-cycler/internal/health"
)

// Public service tokens - exposed to other modules
var (
	CycleLoop = di.NewToken[*app.CycleLoop]("automation.CycleLoop")
	Heartbeat = di.NewToken[*health.Heartbeat]("automation.Heartbeat")
	Journal   = di.NewToken[app.Journal]("automation.Journal")
)

// Private dependency tokens - internal to automation module
var (
	Reporter     = di.NewToken[app.Reporter]("automation:reporter")
	Scheduler    = di.NewToken[*app.Scheduler]("automation:scheduler")
	Orchestrator = di.NewToken[*app.Orchestrator]("automation:orchestrator")
	Catalog      = di.NewToken[*app.Catalog]("automation:catalog")
	Opener       = di.NewToken[app.ContextOpener]("automation:opener")
	RedisJournal = di.NewToken[*journal.RedisJournal]("automation:redisJournal")
)

// Helper functions for type-safe access
func GetCycleLoop(c di.ServiceRegistry) *app.CycleLoop {
	return di.GetToken(c, CycleLoop)
}

func GetHeartbeat(c di.ServiceRegistry) *health.Heartbeat {
	return di.GetToken(c, Heartbeat)
}

func GetJournal(c di.ServiceRegistry) app.Journal {
	return di.GetToken(c, Journal)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}

func GetScheduler(c di.ServiceRegistry) *app.Scheduler {
	return di.GetToken(c, Scheduler)
}

func GetOrchestrator(c di.ServiceRegistry) *app.Orchestrator {
	return di.GetToken(c, Orchestrator)
}

func GetCatalog(c di.ServiceRegistry) *app.Catalog {
	return di.GetToken(c, Catalog)
}

func GetOpener(c di.ServiceRegistry) app.ContextOpener {
	return di.GetToken(c, Opener)
}

func GetRedisJournal(c di.ServiceRegistry) *journal.RedisJournal {
	return di.GetToken(c, RedisJournal)
}
