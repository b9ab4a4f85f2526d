package affinity

import (
	"errors"
	"runtime"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-cpuid/internal/cputypes"
)

func requireAffinity(t *testing.T) {
	t.Helper()

	if !Supported() {
		t.Skipf("no thread affinity control on %s", runtime.GOOS)
	}
}

// lockThread wires the test goroutine to its OS thread for the rest of the test.
func lockThread(t *testing.T) {
	t.Helper()

	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
}

func currentCores(t *testing.T) []int {
	t.Helper()

	s, err := Current()
	require.NoError(t, err)

	return s.Cores()
}

// fakePlatform replaces the mask primitives for the duration of a test.
type fakePlatform struct {
	current  mask
	getErr   error
	setErrs  []error // consumed in order, nil entries succeed
	setCalls []mask
}

func (f *fakePlatform) install(t *testing.T) {
	t.Helper()

	origGet, origSet := getMask, setMask
	t.Cleanup(func() { getMask, setMask = origGet, origSet })

	getMask = func() (mask, error) {
		if f.getErr != nil {
			return f.current, f.getErr
		}

		return f.current, nil
	}
	setMask = func(m mask) error {
		f.setCalls = append(f.setCalls, m)

		if len(f.setErrs) > 0 {
			err := f.setErrs[0]
			f.setErrs = f.setErrs[1:]

			if err != nil {
				return err
			}
		}

		f.current = m

		return nil
	}
}

func mustSingle(t *testing.T, core int) mask {
	t.Helper()

	m, err := singleMask(core)
	require.NoError(t, err)

	return m
}

func TestEnterExitRestoresAffinity(t *testing.T) {
	requireAffinity(t)
	lockThread(t)

	before, err := Current()
	require.NoError(t, err)
	require.NotEmpty(t, before.Cores())

	core := before.Cores()[len(before.Cores())-1]

	scope, err := Enter(core)
	require.NoError(t, err)
	assert.Equal(t, core, scope.Core())
	assert.Equal(t, []int{core}, currentCores(t))

	require.NoError(t, scope.Exit())
	require.NoError(t, scope.Exit(), "second Exit is a no-op")

	after, err := Current()
	require.NoError(t, err)
	assert.True(t, before.Equal(after), "before %v after %v", before.Cores(), after.Cores())
}

func TestEnterInvalidCoreLeavesAffinityUnchanged(t *testing.T) {
	requireAffinity(t)
	lockThread(t)

	before, err := Current()
	require.NoError(t, err)

	for _, core := range []int{-1, MaxCores(), MaxCores() + 7} {
		scope, err := Enter(core)
		require.ErrorIs(t, err, cputypes.ErrAffinitySet, "core %d", core)
		assert.Nil(t, scope)

		var e *cputypes.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, core, e.Core)
		assert.NotNil(t, e.Err, "OS diagnostic")

		after, err := Current()
		require.NoError(t, err)
		assert.True(t, before.Equal(after))
	}
}

func TestRunPinsOnlyTheHelperThread(t *testing.T) {
	requireAffinity(t)
	lockThread(t)

	before, err := Current()
	require.NoError(t, err)

	for _, core := range before.Cores() {
		var during []int

		err := Run(core, func() error {
			s, err := Current()
			during = s.Cores()

			return err
		})
		require.NoError(t, err)
		assert.Equal(t, []int{core}, during)
	}

	after, err := Current()
	require.NoError(t, err)
	assert.True(t, before.Equal(after), "caller thread affinity changed")
}

func TestRunPropagatesActionError(t *testing.T) {
	requireAffinity(t)

	boom := errors.New("boom")
	core := currentCores(t)[0]

	err := Run(core, func() error { return boom })
	assert.Same(t, boom, err)
}

func TestUnsupportedHost(t *testing.T) {
	if Supported() {
		t.Skip("host supports affinity")
	}

	called := false
	err := Run(0, func() error { called = true; return nil })
	require.ErrorIs(t, err, cputypes.ErrAffinityUnsupported)
	assert.False(t, called)

	_, err = Current()
	require.ErrorIs(t, err, cputypes.ErrAffinityUnsupported)
}

func TestEnterQueryFailure(t *testing.T) {
	requireAffinity(t)

	f := &fakePlatform{getErr: syscall.EPERM}
	f.install(t)

	_, err := Enter(0)
	require.ErrorIs(t, err, cputypes.ErrAffinityQuery)
	assert.ErrorIs(t, err, syscall.EPERM)
	assert.Empty(t, f.setCalls, "no mutation after a failed read")
}

func TestEnterSetFailureDoesNotRestore(t *testing.T) {
	requireAffinity(t)

	f := &fakePlatform{current: mustSingle(t, 0), setErrs: []error{syscall.EINVAL}}
	f.install(t)

	called := false
	err := Run(1, func() error { called = true; return nil })
	require.ErrorIs(t, err, cputypes.ErrAffinitySet)
	assert.False(t, called)
	assert.Len(t, f.setCalls, 1, "only the failed pin attempt")
}

func TestRestoreFailureTakesPriority(t *testing.T) {
	requireAffinity(t)

	f := &fakePlatform{current: mustSingle(t, 0), setErrs: []error{nil, syscall.EPERM}}
	f.install(t)

	called := false
	err := Run(1, func() error { called = true; return nil })
	assert.True(t, called)
	require.ErrorIs(t, err, cputypes.ErrAffinityRestore)
	assert.ErrorIs(t, err, syscall.EPERM)
	assert.Equal(t, cputypes.AffinityRestoreFailed, cputypes.KindOf(err))

	require.Len(t, f.setCalls, 2)
	assert.Equal(t, mustSingle(t, 1), f.setCalls[0])
	assert.Equal(t, mustSingle(t, 0), f.setCalls[1], "restore used the saved mask")
}

func TestRestoreFailureJoinsActionError(t *testing.T) {
	requireAffinity(t)

	f := &fakePlatform{current: mustSingle(t, 0), setErrs: []error{nil, syscall.EPERM}}
	f.install(t)

	leafErr := cputypes.NewError(cputypes.UnsupportedLeaf, 0x7fffffff, 0, nil)
	err := Run(1, func() error { return leafErr })

	assert.Equal(t, cputypes.AffinityRestoreFailed, cputypes.KindOf(err), "restore failure reported first")
	assert.ErrorIs(t, err, cputypes.ErrAffinityRestore)
	assert.ErrorIs(t, err, cputypes.ErrUnsupportedLeaf)
}

func TestActionFailureStillRestores(t *testing.T) {
	requireAffinity(t)

	f := &fakePlatform{current: mustSingle(t, 0)}
	f.install(t)

	boom := errors.New("boom")
	err := Run(1, func() error { return boom })
	assert.Same(t, boom, err)

	require.Len(t, f.setCalls, 2)
	assert.Equal(t, mustSingle(t, 0), f.current)
}

func TestSingleMask(t *testing.T) {
	requireAffinity(t)

	m := mustSingle(t, 3)
	assert.Equal(t, []int{3}, Snapshot{m: m}.Cores())

	_, err := singleMask(-1)
	assert.Error(t, err)
}
