package stores

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/EmilyGongVL/ecommerce-v1/pkg/errors"
)

// StatsRecalculator rebuilds a store's denormalized product aggregates.
// It is invoked synchronously after product writes and delivered orders.
type StatsRecalculator struct {
	db *gorm.DB
}

// NewStatsRecalculator binds the recalculator to a GORM DB.
func NewStatsRecalculator(db *gorm.DB) *StatsRecalculator {
	return &StatsRecalculator{db: db}
}

type productAggregates struct {
	Count  int64
	Rating float64
	Sales  int64
}

// Recalculate aggregates the store's active products and persists the
// count, average rating, and sales sum in a single update. A store with
// no active products keeps its previous stats.
func (s *StatsRecalculator) Recalculate(ctx context.Context, storeID uuid.UUID) error {
	var agg productAggregates
	err := s.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) AS count,
			COALESCE(AVG(rating), 0) AS rating,
			COALESCE(SUM(sales), 0) AS sales
			FROM products
			WHERE store_id = ? AND active = ?`, storeID, true).
		Scan(&agg).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate store products")
	}

	if agg.Count == 0 {
		return nil
	}

	rating := math.Round(agg.Rating*10) / 10

	err = s.db.WithContext(ctx).
		Exec(`UPDATE stores SET ratings_quantity = ?, rating = ?, sales = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			agg.Count, rating, agg.Sales, storeID).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist store stats")
	}
	return nil
}
