package village

import (
	"github.com/villagiolabs/villagio/internal/village/service"
	"go.uber.org/fx"
)

var Module = fx.Module("village.service",
	fx.Provide(service.NewService),
)
