package segment

import (
	"github.com/tollgrid/tollgrid/internal/cache"
	"github.com/tollgrid/tollgrid/internal/segment/repository"
	"github.com/tollgrid/tollgrid/internal/segment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("segment.service",
	fx.Provide(cache.NewSegmentCache),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
