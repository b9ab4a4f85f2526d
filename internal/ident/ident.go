// Package ident decodes the identification leaves of CPUID into text and
// numbers for display. It does not name feature bits.
package ident

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/cwbudde/algo-cpuid/internal/cputypes"
)

// ExtendedOffset is the first extended leaf. Its EAX is the highest
// extended leaf the processor implements.
const ExtendedOffset = 0x80000000

// BrandLeaves are the three extended leaves holding the 48-byte brand string.
var BrandLeaves = [3]uint32{ExtendedOffset | 0x2, ExtendedOffset | 0x3, ExtendedOffset | 0x4}

// Vendor decodes the vendor string ("GenuineIntel", "AuthenticAMD", ...)
// from the result of leaf 0. The bytes are in EBX, EDX, ECX order.
func Vendor(leaf0 cputypes.Registers) string {
	var b [12]byte

	binary.LittleEndian.PutUint32(b[0:], leaf0.EBX)
	binary.LittleEndian.PutUint32(b[4:], leaf0.EDX)
	binary.LittleEndian.PutUint32(b[8:], leaf0.ECX)

	return string(b[:])
}

// HasBrand reports whether the extended maximum (EAX of ExtendedOffset)
// covers the brand string leaves.
func HasBrand(extMax cputypes.Registers) bool {
	return extMax.EAX >= BrandLeaves[2]
}

// Brand decodes the processor brand string from the results of BrandLeaves,
// in order. The string ends at the first NUL; padding spaces are trimmed.
func Brand(parts [3]cputypes.Registers) string {
	var b [48]byte

	for i, p := range parts {
		for j, v := range p.Array() {
			binary.LittleEndian.PutUint32(b[i*16+j*4:], v)
		}
	}

	s := b[:]
	if n := bytes.IndexByte(s, 0); n >= 0 {
		s = s[:n]
	}

	return strings.TrimSpace(string(s))
}

// Signature is the processor signature decoded from leaf 1.
type Signature struct {
	Stepping uint32
	Model    uint32
	Family   uint32
	Type     uint32
	BrandID  uint32
}

// DecodeSignature decodes EAX and EBX of leaf 1. The extended model and
// extended family fields are always folded in.
func DecodeSignature(leaf1 cputypes.Registers) Signature {
	a := leaf1.EAX

	modelNumber := (a >> 4) & 0xf
	extendedModel := (a >> 16) & 0xf
	familyCode := (a >> 8) & 0xf
	extendedFamily := (a >> 20) & 0xff

	return Signature{
		Stepping: a & 0xf,
		Model:    extendedModel<<4 + modelNumber,
		Family:   extendedFamily + familyCode,
		Type:     (a >> 12) & 0x3,
		BrandID:  leaf1.EBX & 0xff,
	}
}
