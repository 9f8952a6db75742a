package bootstrap

import (
	"context"

	"go.uber.org/fx"
)

// EnforceSchemaGate refuses to finish startup until migrations have
// activated the schema.
func EnforceSchemaGate(lc fx.Lifecycle, gate SchemaGate) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return gate.MustBeActive(ctx)
		},
	})
}
