package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	algocpuid "github.com/cwbudde/algo-cpuid"
	"github.com/cwbudde/algo-cpuid/internal/cpu"
)

const flagWarmup = "warmup"

type benchMode struct {
	name string
	core int
}

type benchResult struct {
	Mode     string  `json:"mode"`
	Iters    int     `json:"iters"`
	CyclesOp float64 `json:"cycles_per_op"`
	NsPerOp  float64 `json:"ns_per_op"`
}

func newBenchCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure the cost of unpinned and pinned queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runBench()
		},
	}

	flags := cmd.Flags()
	flags.String(flagLeaf, "1", "CPUID leaf to query")
	flags.Int(flagIters, 10000, "Benchmark iterations")
	flags.Int(flagWarmup, 100, "Warmup iterations")
	flags.Int(flagCore, 0, "Logical core for the pinned run (-1 to skip it)")

	return cmd
}

func (c *cli) runBench() error {
	leaf, err := c.uint32Value(flagLeaf)
	if err != nil {
		return err
	}

	iters := c.config.GetInt(flagIters)
	if iters <= 0 {
		return fmt.Errorf("invalid --%s %d", flagIters, iters)
	}

	warmup := max(c.config.GetInt(flagWarmup), 0)

	modes := []benchMode{{name: "unpinned", core: anyCore}}
	if core := c.config.GetInt(flagCore); core != anyCore {
		modes = append(modes, benchMode{name: fmt.Sprintf("core %d", core), core: core})
	}

	results := make([]benchResult, 0, len(modes))

	for _, m := range modes {
		res, err := benchmarkQuery(querier(m.core), leaf, iters, warmup)
		if err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}

		res.Mode = m.name
		results = append(results, res)

		c.log.WithField("mode", m.name).Debugf("%.1f ns/op", res.NsPerOp)
	}

	if c.format() == formatJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")

		return enc.Encode(results)
	}

	fmt.Fprintf(c.out, "strategy=%s leaf=%#x iters=%d warmup=%d\n", cpu.Strategy(), leaf, iters, warmup)
	fmt.Fprintf(c.out, "%10s  %14s  %12s\n", "mode", "cycles/op", "ns/op")

	for _, res := range results {
		fmt.Fprintf(c.out, "%10s  %14.1f  %12.1f\n", res.Mode, res.CyclesOp, res.NsPerOp)
	}

	return nil
}

func benchmarkQuery(query func(uint32) (algocpuid.Registers, error), leaf uint32, iters, warmup int) (benchResult, error) {
	for i := 0; i < warmup; i++ {
		if _, err := query(leaf); err != nil {
			return benchResult{}, err
		}
	}

	// Calibrate outside the measured loop.
	cpu.CyclesToNanoseconds(0)
	runtime.GC()

	start := cpu.ReadCycleCounter()

	for i := 0; i < iters; i++ {
		if _, err := query(leaf); err != nil {
			return benchResult{}, err
		}
	}

	cycles := cpu.CyclesSince(start)

	return benchResult{
		Iters:    iters,
		CyclesOp: float64(cycles) / float64(iters),
		NsPerOp:  float64(cpu.CyclesToNanoseconds(cycles)) / float64(iters),
	}, nil
}
