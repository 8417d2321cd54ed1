// Package bootstrap holds the actions executed once at process start, before
// the server begins accepting traffic.
package bootstrap

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner is a single startup action. Runners execute in ascending Order.
type Runner interface {
	Name() string
	Order() int
	Run(ctx context.Context) error
}

type funcRunner struct {
	name  string
	order int
	fn    func(ctx context.Context) error
}

// NewRunner adapts fn into a Runner.
func NewRunner(name string, order int, fn func(ctx context.Context) error) Runner {
	return &funcRunner{name: name, order: order, fn: fn}
}

func (r *funcRunner) Name() string                  { return r.name }
func (r *funcRunner) Order() int                    { return r.order }
func (r *funcRunner) Run(ctx context.Context) error { return r.fn(ctx) }

// Run executes runners sorted by Order, keeping registration order for equal
// slots, and stops at the first failure.
func Run(ctx context.Context, logger logrus.FieldLogger, runners ...Runner) error {
	if logger == nil {
		logger = logrus.New()
	}

	sorted := slices.Clone(runners)
	slices.SortStableFunc(sorted, func(a, b Runner) int {
		return cmp.Compare(a.Order(), b.Order())
	})

	for _, r := range sorted {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry := logger.WithFields(logrus.Fields{"runner": r.Name(), "order": r.Order()})
		entry.Debug("startup runner starting")
		started := time.Now()
		if err := r.Run(ctx); err != nil {
			return fmt.Errorf("startup runner %s: %w", r.Name(), err)
		}
		entry.WithField("elapsed", time.Since(started)).Info("startup runner finished")
	}
	return nil
}
