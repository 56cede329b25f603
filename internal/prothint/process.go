package prothint

import (
	"context"
	"errors"
	"sync"

	"github.com/tomasbruna/miniprothint/config"
	"github.com/tomasbruna/miniprothint/internal/align"
	"github.com/tomasbruna/miniprothint/internal/locus"
)

// selectParams are the selection thresholds from settings
func selectParams(c *config.Config) locus.SelectParams {
	return locus.SelectParams{
		MinSeedCoverage:           c.Select.MinSeedCoverage,
		MinOverlapForChild:        c.Select.MinOverlapForChild,
		MinScoreFraction:          c.Select.MinScoreFraction,
		TopNPerSeed:               c.Select.TopNPerSeed,
		MaxSubLocusParentCoverage: c.Select.MaxSubLocusParentCoverage,
		MinSubLocusCoverage:       c.Select.MinSubLocusCoverage,
	}
}

// process clusters the alignments into loci, splits each locus at bridges
// and selects its representative alignments. Loci are processed on
// conf.Threads goroutines but the results don't depend on the count.
//
// Returns the loci and the IDs of the selected alignments, in input order.
func process(ctx context.Context, set *align.Set, conf *config.Config) ([]*locus.Locus, []string, error) {
	loci, err := locus.Cluster(set.Alignments)
	if err != nil {
		return nil, nil, err
	}
	stderr.Debugf("%d alignments in %d loci", len(set.Alignments), len(loci))

	params := selectParams(conf)
	jobs := make(chan int)
	errs := make([]error, len(loci))

	var wg sync.WaitGroup
	threads := conf.Threads
	if threads < 1 {
		threads = 1
	}
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					errs[i] = processLocus(loci[i], params, conf.Bridge)
				}
			}
		}()
	}

feed:
	for i := range loci {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}

	var selected []string
	for _, a := range set.Alignments {
		if a.State.Selected() {
			selected = append(selected, a.ID)
		}
	}
	stderr.Debugf("selected %d of %d alignments", len(selected), len(set.Alignments))

	return loci, selected, nil
}

// processLocus splits one locus into sub-loci and selects its alignments.
// A locus without CDS coverage isn't split.
func processLocus(l *locus.Locus, params locus.SelectParams, bridge config.BridgeConfig) error {
	if _, err := l.SplitBridges(bridge.Enter, bridge.Exit); err != nil {
		if !errors.Is(err, align.ErrCoverageUndefined) {
			return err
		}
		stderr.Debugf("not splitting %s: %v", l, err)
	}

	selected, err := locus.Select(l, params)
	if err != nil {
		return err
	}
	stderr.Debugf("%s: %d sub-loci, %d selected", l, len(l.SubLoci()), len(selected))
	return nil
}
