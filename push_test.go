package extsort_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofcore/extsort"
)

func TestPushSortEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(123))
	data := make([]int, 7500)
	for i := range data {
		data[i] = rng.Intn(2000)
	}

	config := func(dir string) *extsort.Config {
		return &extsort.Config{RunSize: 1000, TempDir: dir}
	}

	pullSorter := extsort.New(encodeInt, decodeInt, intCompare, config(t.TempDir()))
	pullIt, err := pullSorter.Sort(slices.Values(data))
	require.NoError(t, err)
	pulled := collect(t, pullIt)

	pushSorter := extsort.New(encodeInt, decodeInt, intCompare, config(t.TempDir()))
	p := pushSorter.PushSorter()
	for _, v := range data {
		require.NoError(t, p.Push(v))
	}
	pushIt, err := p.Finish()
	require.NoError(t, err)
	pushed := collect(t, pushIt)

	require.Equal(t, pulled, pushed)
}

func TestPushSeqMixedWithPush(t *testing.T) {
	sorter := extsort.New(encodeInt, decodeInt, intCompare, &extsort.Config{RunSize: 100, TempDir: t.TempDir()})
	p := sorter.PushSorter()

	require.NoError(t, p.Push(9999))
	require.NoError(t, p.PushSeq(slices.Values(reverseInts(250))))
	require.NoError(t, p.Push(-1))
	require.NoError(t, p.PushSeq(slices.Values(ascInts(250))))

	it, err := p.Finish()
	require.NoError(t, err)

	want := append(reverseInts(250), ascInts(250)...)
	want = append(want, 9999, -1)
	slices.Sort(want)
	require.Equal(t, want, collect(t, it))
}

func TestPushSeqAfterFinish(t *testing.T) {
	sorter := extsort.New(encodeInt, decodeInt, intCompare, &extsort.Config{RunSize: 10, TempDir: t.TempDir()})
	p := sorter.PushSorter()

	it, err := p.Finish()
	require.NoError(t, err)
	defer it.Close()

	require.ErrorIs(t, p.PushSeq(slices.Values([]int{1})), extsort.ErrSorterFinished)
}

func TestPushAfterFinish(t *testing.T) {
	sorter := extsort.New(encodeInt, decodeInt, intCompare, &extsort.Config{RunSize: 10, TempDir: t.TempDir()})
	p := sorter.PushSorter()
	require.NoError(t, p.Push(3))
	require.NoError(t, p.Push(1))

	it, err := p.Finish()
	require.NoError(t, err)

	require.ErrorIs(t, p.Push(2), extsort.ErrSorterFinished)
	_, err = p.Finish()
	require.ErrorIs(t, err, extsort.ErrSorterFinished)

	require.Equal(t, []int{1, 3}, collect(t, it))
}

func TestPushAfterClose(t *testing.T) {
	sorter := extsort.New(encodeInt, decodeInt, intCompare, &extsort.Config{RunSize: 10, TempDir: t.TempDir()})
	p := sorter.PushSorter()
	require.NoError(t, p.Push(1))
	require.NoError(t, p.Close())
	require.ErrorIs(t, p.Push(2), extsort.ErrSorterFinished)
}

func TestPushCloseReleasesTempStorage(t *testing.T) {
	dir := t.TempDir()
	sorter := extsort.New(encodeInt, decodeInt, intCompare, &extsort.Config{RunSize: 100, TempDir: dir})

	p := sorter.PushSorter()
	for _, v := range reverseInts(1000) {
		require.NoError(t, p.Push(v))
	}
	// runs have spilled by now; abandoning must reclaim them
	require.NoError(t, p.Close())
	requireNoTempFiles(t, dir)
}

func TestPushEmptyFinish(t *testing.T) {
	dir := t.TempDir()
	sorter := extsort.New(encodeInt, decodeInt, intCompare, &extsort.Config{RunSize: 10, TempDir: dir})

	p := sorter.PushSorter()
	it, err := p.Finish()
	require.NoError(t, err)
	require.False(t, it.Next())
	require.NoError(t, it.Err())
	requireNoTempFiles(t, dir)
}

func TestPushInterleavedBatches(t *testing.T) {
	// pushes arrive in bursts, as from a callback-driven producer
	sorter := extsort.New(encodeInt, decodeInt, intCompare, &extsort.Config{RunSize: 64, TempDir: t.TempDir()})
	p := sorter.PushSorter()

	var want []int
	rng := rand.New(rand.NewSource(5))
	for batch := 0; batch < 20; batch++ {
		n := rng.Intn(50)
		for i := 0; i < n; i++ {
			v := rng.Intn(10000)
			want = append(want, v)
			require.NoError(t, p.Push(v))
		}
	}
	slices.Sort(want)

	it, err := p.Finish()
	require.NoError(t, err)
	require.Equal(t, want, collect(t, it))
}
