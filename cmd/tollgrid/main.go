package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tollgrid/tollgrid/internal/clock"
	"github.com/tollgrid/tollgrid/internal/migration"
	"github.com/tollgrid/tollgrid/internal/observability"
	"github.com/tollgrid/tollgrid/internal/scheduler"
	"github.com/tollgrid/tollgrid/internal/server"
	"github.com/tollgrid/tollgrid/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
