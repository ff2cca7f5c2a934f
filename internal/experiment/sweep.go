package experiment

import (
	"context"
	"runtime"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/protolab/internal/config"
)

// Sweep runs one independent experiment per diffusivity, in parallel.
// Results are in the order of alphas.
func Sweep(ctx context.Context, base *config.Config, alphas []float64, logger *log.Entry) ([]*Result, error) {
	results := make([]*Result, len(alphas))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, alpha := range alphas {
		i, alpha := i, alpha
		g.Go(func() error {
			cfg := base.Clone()
			cfg.Alpha = alpha

			e := New(cfg, WithLogger(logger))
			if err := e.Setup(NewRegistry().DefaultMetrics(cfg)...); err != nil {
				return err
			}
			res, err := e.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
