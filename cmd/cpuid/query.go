package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/spf13/cobra"

	algocpuid "github.com/cwbudde/algo-cpuid"
)

type queryResult struct {
	Core    *int   `json:"core,omitempty"`
	Leaf    uint32 `json:"leaf"`
	Subleaf uint32 `json:"subleaf"`
	EAX     uint32 `json:"eax"`
	EBX     uint32 `json:"ebx"`
	ECX     uint32 `json:"ecx"`
	EDX     uint32 `json:"edx"`
	// Differs marks a core whose result differs from the first core that
	// answered.
	Differs bool   `json:"differs,omitempty"`
	Error   string `json:"error,omitempty"`

	answered bool
}

func newQueryCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print EAX, EBX, ECX and EDX for one leaf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runQuery()
		},
	}

	flags := cmd.Flags()
	flags.String(flagLeaf, "0", "CPUID leaf (EAX input)")
	flags.String(flagSubleaf, "0", "CPUID subleaf (ECX input)")
	flags.Int(flagCore, anyCore, "Logical core to pin to (-1 for any)")
	flags.Bool(flagAllCores, false, "Query every logical core and mark differences")

	return cmd
}

func (c *cli) runQuery() error {
	leaf, err := c.uint32Value(flagLeaf)
	if err != nil {
		return err
	}

	subleaf, err := c.uint32Value(flagSubleaf)
	if err != nil {
		return err
	}

	var cores []int

	switch {
	case c.config.GetBool(flagAllCores):
		n, err := cpu.Counts(true)
		if err != nil {
			return fmt.Errorf("counting logical cores: %w", err)
		}

		c.log.WithField("cores", n).Debug("querying all cores")

		for i := 0; i < n; i++ {
			cores = append(cores, i)
		}
	default:
		cores = []int{c.config.GetInt(flagCore)}
	}

	results, err := queryCores(cores, leaf, subleaf)
	if err != nil {
		return err
	}

	return c.printResults(results)
}

// queryCores runs the query once per core. A single-core run returns its
// error directly; a multi-core run records per-core errors and fails only
// when no core answered.
func queryCores(cores []int, leaf, subleaf uint32) ([]queryResult, error) {
	var (
		results []queryResult
		first   *algocpuid.Registers
	)

	for _, core := range cores {
		core := core // per-iteration copy; res.Core keeps its address
		res := queryResult{Leaf: leaf, Subleaf: subleaf}
		if core != anyCore {
			res.Core = &core
		}

		var (
			r   algocpuid.Registers
			err error
		)
		if core == anyCore {
			r, err = algocpuid.QuerySub(leaf, subleaf)
		} else {
			r, err = algocpuid.QuerySubOn(core, leaf, subleaf)
		}

		if err != nil {
			if len(cores) == 1 {
				return nil, err
			}

			var e *algocpuid.Error
			if errors.As(err, &e) && e.Registers != nil {
				r = *e.Registers
			} else {
				res.Error = err.Error()
				results = append(results, res)

				continue
			}

			res.Error = err.Error()
		}

		res.EAX, res.EBX, res.ECX, res.EDX = r.EAX, r.EBX, r.ECX, r.EDX
		res.answered = true

		if first == nil {
			first = &r
		} else {
			res.Differs = r != *first
		}

		results = append(results, res)
	}

	if first == nil && len(results) > 0 {
		return results, fmt.Errorf("no core answered leaf %#x: %s", leaf, results[0].Error)
	}

	return results, nil
}

func (c *cli) printResults(results []queryResult) error {
	if c.format() == formatJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")

		return enc.Encode(results)
	}

	fmt.Fprintf(c.out, "%5s  %10s  %8s  %10s  %10s  %10s  %10s\n",
		"core", "leaf", "subleaf", "eax", "ebx", "ecx", "edx")

	for _, res := range results {
		core := "any"
		if res.Core != nil {
			core = fmt.Sprint(*res.Core)
		}

		if !res.answered {
			fmt.Fprintf(c.out, "%5s  %#10x  %#8x  %s\n", core, res.Leaf, res.Subleaf, res.Error)
			continue
		}

		mark := ""
		if res.Differs {
			mark = "  *"
		}
		if res.Error != "" {
			mark += "  (" + res.Error + ")"
		}

		fmt.Fprintf(c.out, "%5s  %#10x  %#8x  %#010x  %#010x  %#010x  %#010x%s\n",
			core, res.Leaf, res.Subleaf, res.EAX, res.EBX, res.ECX, res.EDX, mark)
	}

	return nil
}
