package assessment

import (
	"github.com/tollgrid/tollgrid/internal/assessment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assessment",
	fx.Provide(
		service.New,
	),
)
