package vehicle

import (
	"github.com/tollgrid/tollgrid/internal/vehicle/repository"
	"github.com/tollgrid/tollgrid/internal/vehicle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vehicle.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
