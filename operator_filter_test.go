// Copyright 2026 The Flowpipe Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrop(t *testing.T) {
	values, err := Collect(Drop[int](2)(Of(1, 2, 3, 4, 5)))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, values)
}

func TestDropZeroIsANoop(t *testing.T) {
	values, err := Collect(Drop[int](0)(Of(1, 2, 3)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
}

func TestDropMoreThanLengthDropsEverything(t *testing.T) {
	values, err := Collect(Drop[int](10)(Of(1, 2, 3)))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestDropNegativeCountPanics(t *testing.T) {
	assert.PanicsWithValue(t, ErrDropWrongCount, func() {
		Drop[int](-1)
	})
}

func TestTakeWhileExclusive(t *testing.T) {
	values, err := Collect(TakeWhile(func(v int) bool { return v < 3 }, false)(Of(1, 2, 3, 4, 1)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, values)
}

func TestTakeWhileInclusive(t *testing.T) {
	values, err := Collect(TakeWhile(func(v int) bool { return v < 3 }, true)(Of(1, 2, 3, 4, 1)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
}

func TestTakeWhilePredicateNeverFailsTakesEverything(t *testing.T) {
	values, err := Collect(TakeWhile(func(int) bool { return true }, false)(Of(1, 2, 3)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
}

func intEqual(a, b int) bool { return a == b }

func TestDistinctUntilChangedByKey(t *testing.T) {
	values, err := Collect(DistinctUntilChangedByKey(func(v int) int { return v }, intEqual)(Of(1, 1, 2, 2, 1, 1, 3)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1, 3}, values)
}

func TestDistinctUntilChangedByKeyOnlyComparesAgainstLastKept(t *testing.T) {
	type pair struct {
		group string
		n     int
	}

	source := Of(
		pair{"a", 1}, pair{"a", 2}, pair{"b", 1}, pair{"a", 3},
	)

	values, err := Collect(DistinctUntilChangedByKey(
		func(p pair) string { return p.group },
		func(a, b string) bool { return a == b },
	)(source))
	require.NoError(t, err)
	assert.Equal(t, []pair{{"a", 1}, {"b", 1}, {"a", 3}}, values)
}

// TestDistinctUntilChangedByKeyUsesCallerSuppliedEquivalence exercises a key
// equivalence that is not Go's "==": two keys within 1 of each other are
// treated as the same run, per spec §9's "approximate or domain-specific
// equivalence" requirement.
func TestDistinctUntilChangedByKeyUsesCallerSuppliedEquivalence(t *testing.T) {
	approxEqual := func(a, b int) bool {
		diff := a - b
		if diff < 0 {
			diff = -diff
		}

		return diff <= 1
	}

	values, err := Collect(DistinctUntilChangedByKey(func(v int) int { return v }, approxEqual)(Of(1, 2, 3, 10, 11, 4)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 10, 4}, values)
}

func TestDistinctUntilChangedByKeyPropagatesComparatorPanic(t *testing.T) {
	boom := errors.New("eq boom")

	_, err := Collect(DistinctUntilChangedByKey(
		func(v int) int { return v },
		func(int, int) bool { panic(boom) },
	)(Of(1, 2)))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
