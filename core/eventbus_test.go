package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heshu-by/likelib/core"
)

func TestTopicNotifyFansOutInSubscriptionOrder(t *testing.T) {
	topic := core.NewTopic[int]()
	var order []int

	topic.Subscribe(func(v int) { order = append(order, v*10+1) })
	topic.Subscribe(func(v int) { order = append(order, v*10+2) })

	topic.Notify(5)
	require.Equal(t, []int{51, 52}, order)
}

func TestTopicUnsubscribeStopsDelivery(t *testing.T) {
	topic := core.NewTopic[int]()
	calls := 0
	id := topic.Subscribe(func(int) { calls++ })

	topic.Notify(1)
	topic.Unsubscribe(id)
	topic.Notify(2)

	require.Equal(t, 1, calls)
}

func TestTopicUnsubscribeUnknownIDIsNoop(t *testing.T) {
	topic := core.NewTopic[int]()
	require.NotPanics(t, func() { topic.Unsubscribe(999) })
}

func TestTopicReentrantSubscribeDuringNotify(t *testing.T) {
	// A subscriber that subscribes a new listener mid-notification must not
	// deadlock; the new listener only sees future notifications.
	topic := core.NewTopic[int]()
	var secondCalls int

	topic.Subscribe(func(int) {
		topic.Subscribe(func(int) { secondCalls++ })
	})

	topic.Notify(1)
	require.Equal(t, 0, secondCalls)
	topic.Notify(2)
	require.Equal(t, 1, secondCalls)
}
