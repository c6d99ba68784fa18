package mbcbigp

import (
	"sync"
)

//forEachCluster will run fn once per cluster index, fanning the calls out
//across at most workers goroutines when workers > 1. Per-cluster computations
//in the E- and M-steps read shared inputs and write disjoint outputs, so the
//only synchronization needed is the final gather. The first error reported by
//cluster order wins.
func forEachCluster(k, workers int, fn func(j int) error) error {
	if workers <= 1 || k < 2 {
		for j := 0; j < k; j++ {
			if err := fn(j); err != nil {
				return err
			}
		}
		return nil
	}
	errs := make([]error, k)
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	wg.Add(k)
	for j := 0; j < k; j++ {
		go func(j int) {
			defer wg.Done()
			sem <- struct{}{}
			errs[j] = fn(j)
			<-sem
		}(j)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
