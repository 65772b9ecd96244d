package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ppopth/gf2m/field"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// BenchmarkResult stores average operation latencies for one field degree
type BenchmarkResult struct {
	M   int
	Mul time.Duration
	Inv time.Duration
	Div time.Duration
}

func main() {
	var (
		degrees    = flag.String("m", "8,16,32,64,113,127,128,163,233,283,409,571", "comma-separated field degrees")
		samples    = flag.Int("samples", 200, "elements sampled per degree for the axiom checks")
		iterations = flag.Int("iterations", 1000, "operations timed per degree")
		seed       = flag.Uint64("seed", 0, "sampler seed")
		outputFile = flag.String("output", "gf2m_bench.html", "output file for the latency chart, empty to skip")
	)
	flag.Parse()

	ms, err := parseDegrees(*degrees)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var results []BenchmarkResult
	for _, m := range ms {
		f, err := field.NewBinaryField(m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: m=%d: %v\n", m, err)
			os.Exit(1)
		}

		if err := checkAxioms(f, field.NewSampler(f, *seed), *samples); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", f, err)
			os.Exit(1)
		}

		result := benchmark(f, field.NewSampler(f, *seed+1), *iterations)
		results = append(results, result)
		fmt.Printf("ok  m=%-4d mul %-10v inv %-10v div %v\n", m, result.Mul, result.Inv, result.Div)
	}

	if *outputFile == "" {
		return
	}
	if err := renderChart(*outputFile, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nLatency chart written to: %s\n", *outputFile)
}

func parseDegrees(s string) ([]int, error) {
	var ms []int
	for _, part := range strings.Split(s, ",") {
		m, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad degree %q", part)
		}
		if m <= 0 {
			return nil, fmt.Errorf("degree must be positive, not %d", m)
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// benchmark times each operation on the same sampled operands
func benchmark(f *field.BinaryField, s *field.Sampler, iterations int) BenchmarkResult {
	as := make([]*big.Int, iterations)
	bs := make([]*big.Int, iterations)
	for i := range as {
		as[i] = s.Next()
		bs[i] = s.NextNonZero()
	}

	result := BenchmarkResult{M: f.Degree()}
	result.Mul = timeOp(iterations, func(i int) { f.Mul(as[i], bs[i]) })
	result.Inv = timeOp(iterations, func(i int) { f.Inv(bs[i]) })
	result.Div = timeOp(iterations, func(i int) { f.Div(as[i], bs[i]) })
	return result
}

func timeOp(iterations int, op func(i int)) time.Duration {
	if iterations == 0 {
		return 0
	}
	start := time.Now()
	for i := 0; i < iterations; i++ {
		op(i)
	}
	return time.Since(start) / time.Duration(iterations)
}

func renderChart(name string, results []BenchmarkResult) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "GF(2^m) operation latency"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "m"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "µs"}),
	)

	xLabels := make([]string, len(results))
	mul := make([]opts.LineData, len(results))
	inv := make([]opts.LineData, len(results))
	div := make([]opts.LineData, len(results))
	for i, r := range results {
		xLabels[i] = strconv.Itoa(r.M)
		mul[i] = opts.LineData{Value: micros(r.Mul)}
		inv[i] = opts.LineData{Value: micros(r.Inv)}
		div[i] = opts.LineData{Value: micros(r.Div)}
	}
	line.SetXAxis(xLabels).
		AddSeries("mul", mul).
		AddSeries("inv", inv).
		AddSeries("div", div)

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := line.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func micros(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e3
}
