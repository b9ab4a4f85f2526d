package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-cpuid/internal/ident"
)

type infoResult struct {
	Core            *int   `json:"core,omitempty"`
	Strategy        string `json:"strategy"`
	Vendor          string `json:"vendor"`
	MaxLeaf         uint32 `json:"max_leaf"`
	MaxExtendedLeaf uint32 `json:"max_extended_leaf"`
	Brand           string `json:"brand,omitempty"`
	ident.Signature
}

func newInfoCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print vendor, brand string and processor signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runInfo()
		},
	}

	cmd.Flags().Int(flagCore, anyCore, "Logical core to pin to (-1 for any)")

	return cmd
}

func (c *cli) runInfo() error {
	core := c.config.GetInt(flagCore)
	info, err := collectInfo(core, querier(core))
	if err != nil {
		return err
	}

	if c.format() == formatJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")

		return enc.Encode(info)
	}

	fmt.Fprintln(c.out, "Strategy:", info.Strategy)
	fmt.Fprintln(c.out, "Vendor:", info.Vendor)
	fmt.Fprintf(c.out, "Max leaf: %#x\n", info.MaxLeaf)
	fmt.Fprintf(c.out, "Max extended leaf: %#x\n", info.MaxExtendedLeaf)
	fmt.Fprintln(c.out, "Stepping ID:", info.Stepping)
	fmt.Fprintf(c.out, "Model: %#x\n", info.Model)
	fmt.Fprintln(c.out, "Family:", info.Family)
	fmt.Fprintln(c.out, "Processor Type:", info.Type)
	fmt.Fprintf(c.out, "Brand ID: %#x\n", info.BrandID)
	if info.Brand != "" {
		fmt.Fprintln(c.out, "Brand String:", info.Brand)
	}

	return nil
}
