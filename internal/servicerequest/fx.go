package servicerequest

import (
	"github.com/villagiolabs/villagio/internal/servicerequest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("servicerequest.service",
	fx.Provide(service.NewService),
)
