package apartment

import (
	"github.com/villagiolabs/villagio/internal/apartment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("apartment.service",
	fx.Provide(service.NewService),
)
