package tariff

import (
	"github.com/tollgrid/tollgrid/internal/tariff/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("tariff",
	fx.Provide(repository.Provide),
)
