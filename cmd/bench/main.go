// Command bench generates synthetic order flow and drives it through one
// matching.Engine, measuring throughput. Order generation is fanned out
// across an ants worker pool so producing load is itself concurrent, but
// every generated order is handed to a single draining goroutine that
// calls Engine.Submit serially - the engine never sees concurrent callers,
// honoring the single-dispatch-goroutine requirement the reference
// codebase's own benchmark harness was built around, without reaching for
// its go:linkname semaphore ring buffer to get there.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"matchengine/domain"
	"matchengine/matching"
)

func main() {
	orders := flag.Int("orders", 1_000_000, "number of synthetic orders to generate")
	producers := flag.Int("producers", 8, "size of the producer worker pool")
	seed := flag.Int64("seed", 1, "PRNG seed for synthetic order generation")
	flag.Parse()

	if err := run(*orders, *producers, *seed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(total, poolSize int, seed int64) error {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return fmt.Errorf("bench: creating producer pool: %w", err)
	}
	defer pool.Release()

	queue := make(chan *domain.Order, 4096)
	engine := matching.NewEngine()

	var trades, submitted int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for o := range queue {
			ts, err := engine.Submit(o)
			if err != nil {
				continue // synthetic ids never collide in practice; ignore if they do
			}
			trades += int64(len(ts))
			submitted++
		}
	}()

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < total; i++ {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			queue <- syntheticOrder(seed, i)
		}
		for {
			if err := pool.Submit(task); err == nil {
				break
			}
			time.Sleep(time.Microsecond)
		}
	}
	wg.Wait()
	close(queue)
	<-done
	elapsed := time.Since(start)

	fmt.Printf("orders=%d trades=%d elapsed=%s orders/sec=%.0f\n",
		submitted, trades, elapsed, float64(submitted)/elapsed.Seconds())
	return nil
}

// syntheticOrder deterministically derives one synthetic limit order from
// seed and i; each call seeds its own source, so producer goroutines share
// no PRNG state. The order in which the generated orders reach the engine
// depends on goroutine scheduling and is not reproducible.
func syntheticOrder(seed int64, i int) *domain.Order {
	r := rand.New(rand.NewSource(seed ^ int64(i)))
	side := domain.Buy
	if r.Intn(2) == 1 {
		side = domain.Sell
	}
	price := uint64(9_900 + r.Intn(200))
	size := uint64(1 + r.Intn(500))
	return domain.Limit(side, uint64(i+1), price, size)
}
