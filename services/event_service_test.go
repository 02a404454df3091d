package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBroadcastDelivery(t *testing.T) {
	svc := NewEventService()

	sub1 := svc.Subscribe()
	sub2 := svc.Subscribe()
	assert.Equal(t, 2, svc.SubscriberCount())

	svc.Broadcast(Event{Type: EventPing, MAC: "AA:BB", Timestamp: EventTimestamp()})

	ev1 := <-sub1.C
	ev2 := <-sub2.C
	assert.Equal(t, EventPing, ev1.Type)
	assert.Equal(t, "AA:BB", ev1.MAC)
	assert.Equal(t, ev1.Type, ev2.Type)
}

func TestEventBroadcastOrderPerSubscriber(t *testing.T) {
	svc := NewEventService()
	sub := svc.Subscribe()

	svc.Broadcast(Event{Type: EventPing})
	svc.Broadcast(Event{Type: EventAck})
	svc.Broadcast(Event{Type: EventScheduleFired})

	assert.Equal(t, EventPing, (<-sub.C).Type)
	assert.Equal(t, EventAck, (<-sub.C).Type)
	assert.Equal(t, EventScheduleFired, (<-sub.C).Type)
}

func TestEventUnsubscribeStopsDelivery(t *testing.T) {
	svc := NewEventService()
	sub := svc.Subscribe()

	svc.Unsubscribe(sub)
	assert.Equal(t, 0, svc.SubscriberCount())

	svc.Broadcast(Event{Type: EventPing})

	select {
	case <-sub.C:
		t.Fatal("退订后不应再收到事件")
	default:
	}
}

func TestEventSlowSubscriberDropsWithoutBlocking(t *testing.T) {
	svc := NewEventService()
	slow := svc.Subscribe()
	fast := svc.Subscribe()

	// 填满慢订阅者的缓冲
	for i := 0; i < cap(slow.C); i++ {
		svc.Broadcast(Event{Type: EventPing})
	}
	// 排空快订阅者, 留出空间
	for i := 0; i < cap(fast.C); i++ {
		<-fast.C
	}

	// 缓冲已满的订阅者不阻塞广播, 事件只对它丢失
	svc.Broadcast(Event{Type: EventAck})

	require.Equal(t, cap(slow.C), len(slow.C))
	ev := <-fast.C
	assert.Equal(t, EventAck, ev.Type)
}
