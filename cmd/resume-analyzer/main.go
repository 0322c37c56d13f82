package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/DevVaradPatil/resume-analyzer/internal/clock"
	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	"github.com/DevVaradPatil/resume-analyzer/internal/logger"
	"github.com/DevVaradPatil/resume-analyzer/internal/migration"
	"github.com/DevVaradPatil/resume-analyzer/internal/observability"
	"github.com/DevVaradPatil/resume-analyzer/internal/server"
	"github.com/DevVaradPatil/resume-analyzer/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
