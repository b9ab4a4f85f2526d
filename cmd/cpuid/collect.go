package main

import (
	algocpuid "github.com/cwbudde/algo-cpuid"
	"github.com/cwbudde/algo-cpuid/internal/ident"
)

// collectInfo reads leaves 0, 1 and the extended identification leaves.
func collectInfo(core int, query func(uint32) (algocpuid.Registers, error)) (infoResult, error) {
	info := infoResult{Strategy: algocpuid.Strategy()}
	if core != anyCore {
		info.Core = &core
	}

	leaf0, err := query(0)
	if err != nil {
		return info, err
	}

	info.Vendor = ident.Vendor(leaf0)
	info.MaxLeaf = leaf0.EAX

	if info.MaxLeaf >= 1 {
		leaf1, err := query(1)
		if err != nil {
			return info, err
		}

		info.Signature = ident.DecodeSignature(leaf1)
	}

	ext, err := query(ident.ExtendedOffset)
	if err != nil {
		return info, err
	}

	info.MaxExtendedLeaf = ext.EAX

	if !ident.HasBrand(ext) {
		return info, nil
	}

	var parts [3]algocpuid.Registers
	for i, leaf := range ident.BrandLeaves {
		if parts[i], err = query(leaf); err != nil {
			return info, err
		}
	}

	info.Brand = ident.Brand(parts)

	return info, nil
}
