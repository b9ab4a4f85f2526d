package algocpuid

import "github.com/cwbudde/algo-cpuid/internal/cputypes"

// Error describes a failed query. The canonical definition is in
// internal/cputypes.
type Error = cputypes.Error

// Kind classifies an Error.
type Kind = cputypes.Kind

// Error kinds.
const (
	UnsupportedPlatform   = cputypes.UnsupportedPlatform
	UnsupportedLeaf       = cputypes.UnsupportedLeaf
	AffinityUnsupported   = cputypes.AffinityUnsupported
	AffinityQueryFailed   = cputypes.AffinityQueryFailed
	AffinitySetFailed     = cputypes.AffinitySetFailed
	AffinityRestoreFailed = cputypes.AffinityRestoreFailed
)

// NoCore is the Core of errors from unpinned queries.
const NoCore = cputypes.NoCore

// Sentinel errors, one per Kind. Every *Error matches its Kind's sentinel
// with errors.Is; the OS diagnostic, if any, is reachable through Unwrap.
var (
	// ErrUnsupportedPlatform is returned when the binary targets an
	// architecture without CPUID, or a build with no way to execute it.
	ErrUnsupportedPlatform = cputypes.ErrUnsupportedPlatform

	// ErrUnsupportedLeaf is returned when the leaf is above the maximum the
	// processor reports for the leaf's range.
	ErrUnsupportedLeaf = cputypes.ErrUnsupportedLeaf

	// ErrAffinityUnsupported is returned by pinned queries on hosts without
	// thread affinity control. Unpinned queries still work there.
	ErrAffinityUnsupported = cputypes.ErrAffinityUnsupported

	// ErrAffinityQuery is returned when the thread's affinity can't be read.
	ErrAffinityQuery = cputypes.ErrAffinityQuery

	// ErrAffinitySet is returned when the thread can't be restricted to the
	// requested core: bad index, offline core, or permission denied.
	ErrAffinitySet = cputypes.ErrAffinitySet

	// ErrAffinityRestore is returned when the saved affinity could not be put
	// back. The thread involved is discarded rather than reused.
	ErrAffinityRestore = cputypes.ErrAffinityRestore
)

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	return cputypes.KindOf(err)
}
