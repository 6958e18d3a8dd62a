package booking

import (
	"github.com/tollgrid/tollgrid/internal/booking/repository"
	"github.com/tollgrid/tollgrid/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
