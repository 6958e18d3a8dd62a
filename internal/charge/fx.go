package charge

import (
	"github.com/tollgrid/tollgrid/internal/charge/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("charge",
	fx.Provide(
		repository.Provide,
	),
)
