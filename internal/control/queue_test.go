package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueDrainPreservesFIFOWithinCategory(t *testing.T) {
	q := NewQueue(8, 8)
	q.Push(Message{Kind: KindSetBase, IndexA: 1})
	q.Push(Message{Kind: KindSetBase, IndexA: 2})
	q.Push(Message{Kind: KindSetBase, IndexA: 3})

	var got []int
	q.Drain(func(m Message) { got = append(got, m.IndexA) })
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestQueueTriggersDrainBeforeMainMessages(t *testing.T) {
	q := NewQueue(8, 8)
	q.Push(Message{Kind: KindSetBase, IndexA: 1})
	q.Push(Message{Kind: KindNoteOn, IndexA: 60})

	var kinds []Kind
	q.Drain(func(m Message) { kinds = append(kinds, m.Kind) })
	assert.Equal(t, []Kind{KindNoteOn, KindSetBase}, kinds)
}

func TestQueueOverflowOnMainRingDropsOldest(t *testing.T) {
	q := NewQueue(2, 2)
	q.Push(Message{Kind: KindSetBase, IndexA: 1})
	q.Push(Message{Kind: KindSetBase, IndexA: 2})
	err := q.Push(Message{Kind: KindSetBase, IndexA: 3}) // ring capacity rounds to 2, this overflows
	assert.Error(t, err)

	var got []int
	q.Drain(func(m Message) { got = append(got, m.IndexA) })
	assert.Equal(t, []int{2, 3}, got)
}

func TestQueueTriggerRingNeverStarvedBySetOverflow(t *testing.T) {
	q := NewQueue(1, 4)
	q.Push(Message{Kind: KindSetBase, IndexA: 1})
	q.Push(Message{Kind: KindSetBase, IndexA: 2}) // overflows main ring (capacity 1)
	q.Push(Message{Kind: KindNoteOn, IndexA: 64})

	var kinds []Kind
	q.Drain(func(m Message) { kinds = append(kinds, m.Kind) })
	assert.Equal(t, []Kind{KindNoteOn, KindSetBase}, kinds)
}

func TestQueueDrainEmptiesBothRings(t *testing.T) {
	q := NewQueue(4, 4)
	q.Push(Message{Kind: KindPing})
	calls := 0
	q.Drain(func(Message) { calls++ })
	assert.Equal(t, 1, calls)

	calls = 0
	q.Drain(func(Message) { calls++ })
	assert.Equal(t, 0, calls)
}
