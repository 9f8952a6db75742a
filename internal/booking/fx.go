package booking

import (
	"github.com/villagiolabs/villagio/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(service.NewService),
	fx.Provide(service.NewDomainService),
	fx.Provide(service.NewResolver),
)
