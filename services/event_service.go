package services

import (
	"sync"
	"time"
)

// 事件类型
const (
	EventPing          = "ping"           // 已识别设备的心跳
	EventPingUnknown   = "ping_unknown"   // 未注册或未绑定设备的心跳
	EventAck           = "ack"            // 指令确认(无论是否匹配到待确认记录)
	EventStatusRaw     = "status_raw"     // 不符合ACK格式的状态帧原文
	EventScheduleFired = "schedule_fired" // 排程触发了一次下发
)

// Event 推送给实时订阅者的领域事件, 只存在于内存, 不落库
type Event struct {
	Type       string `json:"type"`
	Floor      int    `json:"floor,omitempty"`
	DoorID     *uint  `json:"doorId,omitempty"`
	ScheduleID uint   `json:"scheduleId,omitempty"`
	MAC        string `json:"mac,omitempty"`
	Action     string `json:"action,omitempty"`
	Raw        string `json:"raw,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// EventTimestamp 事件携带的ISO格式时间戳
func EventTimestamp() string {
	return time.Now().Format(time.RFC3339)
}

// EventSubscriber 一个实时订阅者; C关闭前由广播器独占写入
type EventSubscriber struct {
	C chan Event
}

// InterfaceEventService 定义事件广播服务接口
type InterfaceEventService interface {
	Subscribe() *EventSubscriber
	Unsubscribe(sub *EventSubscriber)
	Broadcast(event Event)
	SubscriberCount() int
}

// EventService 尽力而为的事件扇出: 订阅者消费不过来就丢弃该事件,
// 不排队不重试; 同一订阅者收到的事件顺序与广播顺序一致
type EventService struct {
	mu          sync.Mutex
	subscribers map[*EventSubscriber]struct{}
}

// NewEventService 创建一个新的事件广播服务
func NewEventService() InterfaceEventService {
	return &EventService{
		subscribers: make(map[*EventSubscriber]struct{}),
	}
}

// Subscribe 注册一个新的订阅者
func (s *EventService) Subscribe() *EventSubscriber {
	sub := &EventSubscriber{
		C: make(chan Event, 16),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[sub] = struct{}{}
	return sub
}

// Unsubscribe 移除订阅者; 连接断开时必须调用, 无论断开原因
func (s *EventService) Unsubscribe(sub *EventSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, sub)
}

// Broadcast 将事件发给当前所有订阅者, 投递失败只跳过不阻塞
func (s *EventService) Broadcast(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sub := range s.subscribers {
		select {
		case sub.C <- event:
		default:
			// 订阅者缓冲已满, 本条事件对它而言丢失
		}
	}
}

// SubscriberCount 当前订阅者数量
func (s *EventService) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}
