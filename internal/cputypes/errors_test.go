package cputypes

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesSentinelAndCause(t *testing.T) {
	err := error(&Error{Kind: AffinitySetFailed, Leaf: 1, Core: 4096, Err: syscall.EINVAL})

	assert.ErrorIs(t, err, ErrAffinitySet)
	assert.ErrorIs(t, err, syscall.EINVAL)
	assert.NotErrorIs(t, err, ErrAffinityRestore)
	assert.Equal(t, AffinitySetFailed, KindOf(err))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "unpinned leaf",
			err:  NewError(UnsupportedLeaf, 0x7fffffff, 0, nil),
			want: "algocpuid: requested CPUID leaf not supported (leaf 0x7fffffff)",
		},
		{
			name: "pinned with cause",
			err:  &Error{Kind: AffinitySetFailed, Leaf: 1, Core: 3, Err: errors.New("invalid argument")},
			want: "algocpuid: unable to set CPU affinity (leaf 0x1, core 3): invalid argument",
		},
		{
			name: "subleaf",
			err:  NewError(UnsupportedPlatform, 7, 1, nil),
			want: "algocpuid: CPUID is only supported on x86 (leaf 0x7, subleaf 0x1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindSentinelsAreDistinct(t *testing.T) {
	seen := map[error]Kind{}

	for k := UnsupportedPlatform; k <= AffinityRestoreFailed; k++ {
		s := k.Sentinel()
		require.NotNil(t, s, k.String())

		prev, dup := seen[s]
		assert.False(t, dup, "%v shares a sentinel with %v", k, prev)
		seen[s] = k
	}

	assert.Nil(t, Kind(0).Sentinel())
	assert.Equal(t, "Kind(0)", Kind(0).String())
}

func TestKindOfWrapped(t *testing.T) {
	inner := NewError(UnsupportedLeaf, 0x20, 0, nil)
	joined := errors.Join(&Error{Kind: AffinityRestoreFailed, Core: 0}, inner)

	assert.Equal(t, AffinityRestoreFailed, KindOf(joined))
	assert.ErrorIs(t, joined, ErrUnsupportedLeaf)
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}

func TestRegistersArray(t *testing.T) {
	r := Registers{EAX: 1, EBX: 2, ECX: 3, EDX: 4}

	assert.Equal(t, [4]uint32{1, 2, 3, 4}, r.Array())
	assert.Equal(t, "eax=0x00000001 ebx=0x00000002 ecx=0x00000003 edx=0x00000004", r.String())
}
