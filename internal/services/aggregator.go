// Package services provides the aggregation logic and the pipeline that
// drives sync, aggregation and reporting.
package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"collapse/internal/core"
	"collapse/internal/log"
)

// EventStore is the query surface the aggregator needs.
type EventStore interface {
	AverageSeverity(ctx context.Context, category core.Category, month int) (float64, bool, error)
	EventCount(ctx context.Context, category core.Category, month int) (int, error)
}

// MonthlyAggregator turns per-cell store queries into a category x month
// matrix. It holds no state between calls.
type MonthlyAggregator struct {
	store   EventStore
	workers int
	logger  *log.Logger
}

// NewMonthlyAggregator creates an aggregator. workers <= 1 queries cells one
// after another; higher values query up to that many cells at once.
func NewMonthlyAggregator(store EventStore, workers int, logger *log.Logger) *MonthlyAggregator {
	if workers < 1 {
		workers = 1
	}
	return &MonthlyAggregator{
		store:   store,
		workers: workers,
		logger:  logger.WithComponent(log.ComponentAggregate),
	}
}

// Aggregate computes one cell per (category, month) pair, months 1 to 12.
// Categories must belong to the fixed set and appear once. A month without
// events yields a zero cell.
func (a *MonthlyAggregator) Aggregate(ctx context.Context, categories []core.Category) (core.Matrix, error) {
	if err := validateCategories(categories); err != nil {
		return nil, err
	}

	matrix := core.NewMatrix(categories)

	var err error
	if a.workers == 1 {
		err = a.aggregateSequential(ctx, categories, matrix)
	} else {
		err = a.aggregateConcurrent(ctx, categories, matrix)
	}
	if err != nil {
		return nil, err
	}

	a.logger.DebugContext(ctx, "Aggregation complete",
		log.FieldOperation, log.OpAggregate,
		"categories", len(categories),
		"cells", len(categories)*core.MonthsPerYear,
		log.FieldWorkers, a.workers)

	return matrix, nil
}

func (a *MonthlyAggregator) aggregateSequential(ctx context.Context, categories []core.Category, matrix core.Matrix) error {
	for _, c := range categories {
		for month := 1; month <= core.MonthsPerYear; month++ {
			cell, err := a.cell(ctx, c, month)
			if err != nil {
				return err
			}
			matrix[c][month-1] = cell
		}
	}
	return nil
}

// aggregateConcurrent fills pre-allocated slots, so the result is identical
// to the sequential run whatever order the queries finish in.
func (a *MonthlyAggregator) aggregateConcurrent(ctx context.Context, categories []core.Category, matrix core.Matrix) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for _, c := range categories {
		row := matrix[c]
		for month := 1; month <= core.MonthsPerYear; month++ {
			g.Go(func() error {
				cell, err := a.cell(gctx, c, month)
				if err != nil {
					return err
				}
				row[month-1] = cell
				return nil
			})
		}
	}

	return g.Wait()
}

func (a *MonthlyAggregator) cell(ctx context.Context, c core.Category, month int) (core.Cell, error) {
	avg, ok, err := a.store.AverageSeverity(ctx, c, month)
	if err != nil {
		return core.Cell{}, fmt.Errorf("aggregate %s month %d: %w", c, month, err)
	}
	count, err := a.store.EventCount(ctx, c, month)
	if err != nil {
		return core.Cell{}, fmt.Errorf("aggregate %s month %d: %w", c, month, err)
	}
	if !ok {
		avg = 0
	}
	return core.Cell{AverageSeverity: avg, EventCount: count}, nil
}

func validateCategories(categories []core.Category) error {
	seen := make(map[core.Category]bool, len(categories))
	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c] {
			return fmt.Errorf("duplicate category %q", c)
		}
		seen[c] = true
	}
	return nil
}
