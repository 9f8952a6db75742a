package servicetype

import (
	"github.com/villagiolabs/villagio/internal/servicetype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("servicetype.service",
	fx.Provide(service.NewService),
	fx.Provide(service.NewPriceLookup),
)
