package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/andresuchdata/salesmap/internal/repository"
	"github.com/jmoiron/sqlx"
)

type priceGroupRepository struct {
	db *DB
}

func NewPriceGroupRepository(db *DB) repository.PriceGroupRepository {
	return &priceGroupRepository{db: db}
}

// GetPriceGroups returns the saved groups in entry order.
func (r *priceGroupRepository) GetPriceGroups(ctx context.Context) (domain.PriceGroups, error) {
	var groups domain.PriceGroups
	err := r.db.SelectContext(ctx, &groups, `
		SELECT month, price
		FROM m2_price_groups
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load price groups: %w", err)
	}
	return groups, nil
}

// ReplacePriceGroups swaps the whole table in one transaction. Duplicate
// months are stored as entered.
func (r *priceGroupRepository) ReplacePriceGroups(ctx context.Context, groups domain.PriceGroups) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM m2_price_groups`); err != nil {
			return fmt.Errorf("failed to clear price groups: %w", err)
		}
		if len(groups) == 0 {
			return nil
		}

		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO m2_price_groups (position, month, price, updated_at)
			VALUES ($1, $2, $3, NOW())
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, g := range groups {
			if _, err := stmt.ExecContext(ctx, i, g.Month, g.Price); err != nil {
				return fmt.Errorf("failed to insert price group %d: %w", i+1, err)
			}
		}
		return nil
	})
}
