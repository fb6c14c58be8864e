package meshgen

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/spacecraft/internal/queue"
	"github.com/Faultbox/spacecraft/internal/terrain"
	"github.com/Faultbox/spacecraft/pkg/quadtree"
)

func request(kind terrain.RequestKind, id int) terrain.Request {
	return terrain.Request{
		Kind: kind,
		Ref:  terrain.PatchRef{Face: terrain.Top, Node: quadtree.Handle{ID: quadtree.NodeID(id), Gen: 1}},
	}
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(8)
	require.NoError(t, q.Schedule(request(terrain.RequestCreate, 1)))
	require.NoError(t, q.ScheduleBatch(
		request(terrain.RequestCreate, 2),
		request(terrain.RequestRemove, 3),
	))
	require.NoError(t, q.Schedule(request(terrain.RequestShow, 4)))
	assert.Equal(t, 4, q.Len())

	got := q.Drain(0)
	require.Len(t, got, 4)
	for i, r := range got {
		assert.EqualValues(t, i+1, r.Ref.Node.ID)
	}
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain(0))
}

func TestQueue_DrainMax(t *testing.T) {
	q := NewQueue(8)
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Schedule(request(terrain.RequestCreate, i)))
	}

	assert.Len(t, q.Drain(2), 2)
	assert.Equal(t, 3, q.Len())
	assert.EqualValues(t, 2, q.Drain(1)[0].Ref.Node.ID)
}

func TestQueue_Overflow(t *testing.T) {
	q := NewQueue(2)
	require.NoError(t, q.Schedule(request(terrain.RequestCreate, 1)))
	require.NoError(t, q.Schedule(request(terrain.RequestCreate, 2)))

	err := q.Schedule(request(terrain.RequestCreate, 3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQueueFull))
	assert.True(t, errors.Is(err, queue.ErrFull))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 2, q.Cap())
}

func TestQueue_BatchAllOrNothing(t *testing.T) {
	q := NewQueue(4)
	require.NoError(t, q.Schedule(request(terrain.RequestCreate, 1)))

	err := q.ScheduleBatch(
		request(terrain.RequestCreate, 2),
		request(terrain.RequestCreate, 3),
		request(terrain.RequestCreate, 4),
		request(terrain.RequestHide, 5),
	)
	assert.True(t, errors.Is(err, ErrQueueFull))
	assert.Equal(t, 1, q.Len())

	err = q.ScheduleBatch(make([]terrain.Request, 5)...)
	assert.True(t, errors.Is(err, queue.ErrBatchTooLarge))

	assert.NoError(t, q.ScheduleBatch())
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	const producers, each = 8, 50
	q := NewQueue(producers * each)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				assert.NoError(t, q.Schedule(request(terrain.RequestCreate, p*each+i)))
			}
		}(p)
	}
	wg.Wait()

	got := q.Drain(0)
	require.Len(t, got, producers*each)
	last := make(map[int]int)
	for _, r := range got {
		id := int(r.Ref.Node.ID)
		p := id / each
		if prev, ok := last[p]; ok {
			assert.Greater(t, id, prev)
		}
		last[p] = id
	}
}
