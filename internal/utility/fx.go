package utility

import (
	"github.com/villagiolabs/villagio/internal/utility/service"
	"go.uber.org/fx"
)

var Module = fx.Module("utility.service",
	fx.Provide(service.NewService),
)
