package extsort_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofcore/extsort"
)

func TestUniq(t *testing.T) {
	data := []int{5, 1, 3, 1, 5, 5, 2, 3, 1}
	sorter := extsort.New(encodeInt, decodeInt, intCompare, &extsort.Config{RunSize: 4, TempDir: t.TempDir()})

	it, err := sorter.Sort(slices.Values(data))
	require.NoError(t, err)

	var got []int
	for v, err := range extsort.Uniq(it.All()) {
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []int{1, 2, 3, 5}, got)
}

func TestUniqPassesThroughErrors(t *testing.T) {
	sorter := extsort.New(encodeInt, poisonDecodeInt(7), intCompare, &extsort.Config{RunSize: 10, TempDir: t.TempDir()})

	it, err := sorter.Sort(slices.Values(reverseInts(10)))
	require.NoError(t, err)

	var seen error
	var got []int
	for v, err := range extsort.Uniq(it.All()) {
		if err != nil {
			seen = err
			continue
		}
		got = append(got, v)
	}
	require.Error(t, seen)
	require.Equal(t, ascInts(7), got)
}
