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

func sum(acc, v int) int { return acc + v }

func TestReduceOnEmptySourceEmitsNothing(t *testing.T) {
	values, err := Collect(Reduce(sum)(Empty[int]()))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestReduceOnSingleElementEmitsNothing(t *testing.T) {
	// The reducer never runs with only one element (it becomes the seed),
	// so applied stays false and nothing is emitted on completion.
	values, err := Collect(Reduce(sum)(Of(42)))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestReduceOverFourElements(t *testing.T) {
	values, err := Collect(Reduce(sum)(Of(1, 2, 3, 4)))
	require.NoError(t, err)
	assert.Equal(t, []int{10}, values)
}

func TestReducePropagatesReducerPanic(t *testing.T) {
	sentinel := errors.New("reduce boom")

	values, err := Collect(Reduce(func(acc, v int) int {
		if v == 3 {
			panic(sentinel)
		}
		return acc + v
	})(Of(1, 2, 3, 4)))

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Empty(t, values)
}

func TestFoldLeftSeededSum(t *testing.T) {
	values, err := Collect(FoldLeft(func() int { return 100 }, sum)(Of(1, 2, 3)))
	require.NoError(t, err)
	assert.Equal(t, []int{106}, values)
}

func TestFoldLeftOnEmptySourceEmitsSeed(t *testing.T) {
	values, err := Collect(FoldLeft(func() int { return 7 }, sum)(Empty[int]()))
	require.NoError(t, err)
	assert.Equal(t, []int{7}, values)
}

func TestFoldLeftSeedPanicYieldsReduceWrongState(t *testing.T) {
	values, err := Collect(FoldLeft(func() int {
		panic("cannot construct seed")
	}, sum)(Of(1, 2, 3)))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReduceWrongState)
	assert.Empty(t, values)
}

func TestSumOverFourElements(t *testing.T) {
	values, err := Collect(Sum[int]()(Of(1, 2, 3, 4)))
	require.NoError(t, err)
	assert.Equal(t, []int{10}, values)
}

func TestSumOnEmptySourceEmitsZero(t *testing.T) {
	values, err := Collect(Sum[int]()(Empty[int]()))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, values)
}

func TestSumFloat(t *testing.T) {
	values, err := Collect(Sum[float64]()(Of(1.5, 2.5, 1.0)))
	require.NoError(t, err)
	assert.Equal(t, []float64{5.0}, values)
}
