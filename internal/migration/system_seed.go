package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

type namedSeed struct {
	Name string
}

// seedSystemImmutableData inserts the reference rows every installation
// needs: the payment methods residents can settle with and the baseline
// service catalog. Rows are keyed by unique name, so reruns are no-ops
// and operator-added rows are never touched.
func seedSystemImmutableData(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("system seed requires database handle")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		return fmt.Errorf("create seed id node: %w", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin system seed transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := seedPaymentMethods(ctx, tx, node); err != nil {
		return err
	}
	if err := seedServiceTypes(ctx, tx, node); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit system seed transaction: %w", err)
	}
	return nil
}

func seedPaymentMethods(ctx context.Context, tx *sql.Tx, node *snowflake.Node) error {
	methods := []namedSeed{
		{Name: "cash"},
		{Name: "bank_transfer"},
		{Name: "cheque"},
	}
	for _, method := range methods {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO payment_methods (id, name)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, int64(node.Generate()), method.Name)
		if err != nil {
			return fmt.Errorf("seed payment method %s: %w", method.Name, err)
		}
	}
	return nil
}

func seedServiceTypes(ctx context.Context, tx *sql.Tx, node *snowflake.Node) error {
	types := []namedSeed{
		{Name: "Cleaning"},
		{Name: "Maintenance"},
		{Name: "Gardening"},
	}
	for _, serviceType := range types {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO service_types (id, name)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, int64(node.Generate()), serviceType.Name)
		if err != nil {
			return fmt.Errorf("seed service type %s: %w", serviceType.Name, err)
		}
	}
	return nil
}
