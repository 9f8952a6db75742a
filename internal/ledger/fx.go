package ledger

import (
	"github.com/villagiolabs/villagio/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.reader",
	fx.Provide(service.NewReader),
)
