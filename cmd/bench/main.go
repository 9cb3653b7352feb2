package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/jroosing/hydrawhois/internal/resolvers"
	"github.com/jroosing/hydrawhois/internal/whois"
)

// bench sends concurrent single-hop WHOIS queries to one server and reports
// latency percentiles. Point it at a local server: public registries will
// rate limit or block you.
func main() {
	var (
		server      = flag.String("server", "127.0.0.1:4343", "WHOIS server HOST:PORT")
		name        = flag.String("name", "example.com", "Query name")
		concurrency = flag.Int("concurrency", 50, "Number of concurrent workers")
		requests    = flag.Int("requests", 2000, "Total number of requests")
		timeout     = flag.Duration("timeout", 2*time.Second, "Per-request timeout")
		parse       = flag.Bool("parse", true, "Parse each response")
	)
	flag.Parse()

	if _, _, err := whois.SplitServer(*server); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	stats := resolvers.NewStats()
	client := resolvers.NewClient(resolvers.WithStats(stats))

	conc := max(*concurrency, 1)
	total := max(*requests, 1)
	per := total / conc
	rem := total % conc

	lat := make([]float64, 0, total)
	var latMu sync.Mutex

	t0 := time.Now()
	var wg sync.WaitGroup
	for i := range conc {
		n := per
		if i < rem {
			n++
		}
		if n <= 0 {
			continue
		}
		wg.Go(func() {
			for range n {
				start := time.Now()
				ctx, cancel := context.WithTimeout(context.Background(), *timeout)
				text, err := client.Query(ctx, *server, *name)
				cancel()
				if err != nil {
					continue
				}
				if *parse {
					_, _ = whois.Parse(text)
				}
				ms := float64(time.Since(start).Microseconds()) / 1000.0
				latMu.Lock()
				lat = append(lat, ms)
				latMu.Unlock()
			}
		})
	}
	wg.Wait()
	elapsed := time.Since(t0).Seconds()

	snap := stats.Snapshot()
	if len(lat) == 0 {
		fmt.Printf("no successful requests errors=%v\n", snap.Errors)
		return
	}
	sort.Float64s(lat)
	p50 := percentile(lat, 50)
	p95 := percentile(lat, 95)
	p99 := percentile(lat, 99)
	qps := float64(len(lat)) / elapsed

	fmt.Printf("server=%s name=%q concurrency=%d requests=%d ok=%d\n", *server, *name, conc, total, len(lat))
	fmt.Printf("elapsed_s=%.3f qps=%.1f bytes_read=%d\n", elapsed, qps, snap.BytesRead)
	fmt.Printf("latency_ms p50=%.3f p95=%.3f p99=%.3f min=%.3f max=%.3f\n", p50, p95, p99, lat[0], lat[len(lat)-1])
	if len(snap.Errors) > 0 {
		fmt.Printf("errors=%v\n", snap.Errors)
	}
}

func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted))*float64(p)/100.0) - 1
	return sorted[min(max(idx, 0), len(sorted)-1)]
}
