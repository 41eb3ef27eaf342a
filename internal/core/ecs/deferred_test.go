package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeferredFlushFIFO(t *testing.T) {
	d := NewDeferred[int](2)
	d.Push(1)
	d.Push(2)
	d.Push(3)

	var got []int
	d.Flush(func(v int) { got = append(got, v) })

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Zero(t, d.Len())
}

func TestDeferredFlushIncludesNestedPushes(t *testing.T) {
	d := NewDeferred[int](4)
	d.Push(1)

	var got []int
	d.Flush(func(v int) {
		got = append(got, v)
		if v < 3 {
			d.Push(v + 1)
		}
	})

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Zero(t, d.Len())
}

func TestDeferredReset(t *testing.T) {
	d := NewDeferred[string](1)
	d.Push("a")
	d.Reset()

	called := false
	d.Flush(func(string) { called = true })
	assert.False(t, called)
}
