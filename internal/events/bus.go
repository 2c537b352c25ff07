package events

import (
	"sync"
	"sync/atomic"
)

type subscriber struct {
	id      int
	handler Handler
}

// EventBus 是事件总线的实现
type EventBus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscriber
	nextID   int
	seq      atomic.Uint64
	wg       sync.WaitGroup
}

// NewEventBus 创建新的事件总线
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]subscriber),
	}
}

// Publish 发布事件，处理函数异步执行，顺序不保证，需要顺序的订阅者按 Seq 判断
func (eb *EventBus) Publish(event Event) {
	event.Seq = eb.seq.Add(1)

	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for _, sub := range eb.handlers[event.Type] {
		eb.wg.Add(1)
		go func(h Handler) { // 异步处理事件
			defer eb.wg.Done()
			h(event)
		}(sub.handler)
	}
}

// Subscribe 订阅事件
func (eb *EventBus) Subscribe(eventType EventType, handler Handler) Subscription {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	eb.handlers[eventType] = append(eb.handlers[eventType], subscriber{id: eb.nextID, handler: handler})
	return Subscription{
		EventType: eventType,
		id:        eb.nextID,
	}
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(sub Subscription) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	handlers := eb.handlers[sub.EventType]
	for i, s := range handlers {
		if s.id == sub.id {
			eb.handlers[sub.EventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
}

// Wait 等待所有已发布事件处理完成
func (eb *EventBus) Wait() {
	eb.wg.Wait()
}
