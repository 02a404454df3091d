package services

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/antonisk2077/ISK-Doorlock-v2/config"
	"github.com/antonisk2077/ISK-Doorlock-v2/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 用户可见的下发失败原因
var (
	ErrInvalidAction = errors.New("不支持的指令动作")
	ErrDoorNotFound  = errors.New("门不存在")
	ErrDoorNoChip    = errors.New("门未绑定芯片/MAC")
)

// DispatchResult 下发成功后的回执
type DispatchResult struct {
	Topic        string `json:"topic"`
	Message      string `json:"message"`
	CommandLogID uint   `json:"cmd_log_id"`
}

// InterfaceGateService 定义门控指令服务接口
type InterfaceGateService interface {
	Connect() error
	Disconnect()
	SubscribeToTopics() error
	Dispatch(doorID uint, action string) (*DispatchResult, error)
	PendingCount() int
}

// GateService 指令下发与确认关联的实现.
// 待确认表只在进程内存, 重启即清空, 这是接受的行为而不是缺陷;
// 表大小通过PendingCount暴露为可观测指标.
type GateService struct {
	DB             *gorm.DB
	Config         *config.Config
	Events         InterfaceEventService
	Client         mqtt.Client
	IsConnected    bool
	connectedMutex sync.RWMutex // 保护IsConnected字段的读写
	PublishMutex   sync.Mutex   // 用于保护MQTT连接与消息发布

	pending *pendingAckTable
}

// NewGateService 创建一个新的门控指令服务实现
func NewGateService(db *gorm.DB, cfg *config.Config, events InterfaceEventService) InterfaceGateService {
	service := &GateService{
		DB:      db,
		Config:  cfg,
		Events:  events,
		pending: newPendingAckTable(),
	}

	// 设置MQTT客户端
	service.setupMQTTClient()

	return service
}

// setupMQTTClient 设置MQTT客户端
func (s *GateService) setupMQTTClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBrokerURL)
	// 使用唯一的客户端ID，避免同一服务多实例冲突
	opts.SetClientID(fmt.Sprintf("%s-%s-%d", s.Config.MQTTClientID, uuid.New().String()[:8], time.Now().UnixNano()))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)
	opts.SetOrderMatters(true)

	// 添加用户名和密码
	if s.Config.MQTTUsername != "" {
		opts.SetUsername(s.Config.MQTTUsername)
		opts.SetPassword(s.Config.MQTTPassword)
	}

	// 添加TLS配置，支持SSL连接
	if strings.HasPrefix(s.Config.MQTTBrokerURL, "ssl://") || strings.HasPrefix(s.Config.MQTTBrokerURL, "tls://") {
		log.Println("[MQTT] 使用TLS连接")
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	}

	// 设置连接丢失回调
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("[MQTT] 连接丢失: %v", err)
		s.connectedMutex.Lock()
		s.IsConnected = false
		s.connectedMutex.Unlock()
	})

	// 设置连接建立回调
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Println("[MQTT] 成功连接到", s.Config.MQTTBrokerURL)
		s.connectedMutex.Lock()
		s.IsConnected = true
		s.connectedMutex.Unlock()

		// 订阅主题
		if err := s.SubscribeToTopics(); err != nil {
			log.Printf("[MQTT] 订阅主题失败: %v", err)
		}
	})

	// 设置重连回调
	opts.SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
		log.Println("[MQTT] 正在尝试重连...")
	})

	// 创建客户端
	s.Client = mqtt.NewClient(opts)
}

// Connect 连接到MQTT服务器，带有重试机制
func (s *GateService) Connect() error {
	log.Printf("[MQTT] 正在连接到 %s...", s.Config.MQTTBrokerURL)

	// 加锁，确保同一时间只有一个连接尝试
	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	// 如果已连接，直接返回
	s.connectedMutex.RLock()
	isConnected := s.IsConnected && s.Client.IsConnected()
	s.connectedMutex.RUnlock()

	if isConnected {
		return nil
	}

	// 添加最大重试次数和指数退避策略
	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		token := s.Client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			s.connectedMutex.Lock()
			s.IsConnected = true
			s.connectedMutex.Unlock()
			log.Printf("[MQTT] 成功连接到 %s", s.Config.MQTTBrokerURL)
			return nil
		}

		err = token.Error()
		backoffTime := time.Duration(1<<uint(i)) * time.Second // 指数退避: 1s, 2s, 4s, 8s, 16s
		log.Printf("[MQTT] 连接尝试 %d/%d 失败: %v, 将在 %v 后重试", i+1, maxRetries, err, backoffTime)
		time.Sleep(backoffTime)
	}

	return fmt.Errorf("[MQTT] 连接失败，已尝试 %d 次: %v", maxRetries, err)
}

// Disconnect 断开与MQTT服务器的连接
func (s *GateService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
}

// SubscribeToTopics 订阅所有楼层的status和health主题
func (s *GateService) SubscribeToTopics() error {
	// 通道本身至多一次交付, 订阅也使用QoS 0
	qos := byte(0)

	for _, floor := range s.Config.Floors {
		for _, leaf := range []string{TopicLeafStatus, TopicLeafHealth} {
			topic := BuildTopic(s.Config.MQTTTopicPrefix, floor, leaf)
			if token := s.Client.Subscribe(topic, qos, s.handleInbound); token.Wait() && token.Error() != nil {
				return fmt.Errorf("订阅主题失败 [%s]: %v", topic, token.Error())
			}
			log.Printf("[MQTT] 已订阅主题: %s", topic)
		}
	}
	return nil
}

// handleInbound 入站消息统一入口, 按主题分类后分发
func (s *GateService) handleInbound(_ mqtt.Client, msg mqtt.Message) {
	// 使用defer和recover防止处理程序panic导致整个服务崩溃
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[MQTT] 处理入站消息发生panic: topic=%s, error=%v", msg.Topic(), r)
		}
	}()

	floor, leaf, ok := ParseTopic(s.Config.MQTTTopicPrefix, msg.Topic())
	if !ok {
		// 共享前缀下的无关主题, 忽略即可
		return
	}

	text := strings.TrimSpace(string(msg.Payload()))

	switch leaf {
	case TopicLeafHealth:
		s.handleHeartbeat(floor, text)
	case TopicLeafStatus:
		s.handleAck(floor, text)
	}
}

// handleHeartbeat 处理心跳帧: 落一条ping_log并广播; 格式不符静默丢弃
func (s *GateService) handleHeartbeat(floor int, text string) {
	mac, ok := ParseHeartbeat(text)
	if !ok {
		return
	}

	door, err := s.resolveDoorByMAC(mac)
	if err != nil {
		log.Printf("[MQTT] 心跳查询门失败: mac=%s, error=%v", mac, err)
		return
	}

	if door == nil {
		s.Events.Broadcast(Event{
			Type:      EventPingUnknown,
			Floor:     floor,
			MAC:       mac,
			Raw:       text,
			Timestamp: EventTimestamp(),
		})
		return
	}

	// 落库失败不阻断事件广播, 监控面仍能看到这次心跳
	pingLog := models.PingLog{DoorID: door.ID, PingAt: time.Now()}
	if err := s.DB.Create(&pingLog).Error; err != nil {
		log.Printf("[MQTT] 写入心跳记录失败: doorID=%d, error=%v", door.ID, err)
	}

	doorID := door.ID
	s.Events.Broadcast(Event{
		Type:      EventPing,
		Floor:     floor,
		DoorID:    &doorID,
		MAC:       mac,
		Timestamp: EventTimestamp(),
	})
}

// handleAck 处理确认帧: 至多一次地消费待确认记录并回填台账.
// 不符合ACK格式的状态帧仍有运维价值, 以status_raw事件原文上报.
func (s *GateService) handleAck(floor int, text string) {
	frame, ok := ParseAck(text)
	if !ok {
		s.Events.Broadcast(Event{
			Type:      EventStatusRaw,
			Floor:     floor,
			Raw:       text,
			Timestamp: EventTimestamp(),
		})
		return
	}

	// 设备未注册或未绑定门不是错误, doorId以空值上报
	var doorID *uint
	door, err := s.resolveDoorByMAC(frame.MAC)
	if err != nil {
		log.Printf("[MQTT] 确认查询门失败: mac=%s, error=%v", frame.MAC, err)
	} else if door != nil {
		doorID = &door.ID
	}

	if logID, matched := s.pending.Consume(frame.MAC, frame.Action); matched {
		now := time.Now()
		var entry models.CommandLog
		if err := s.DB.First(&entry, logID).Error; err != nil {
			log.Printf("[MQTT] 读取指令台账失败: id=%d, error=%v", logID, err)
		} else {
			latency := int(now.Sub(entry.RequestedAt).Milliseconds())
			// ack_at一旦写入不再覆盖
			if err := s.DB.Model(&models.CommandLog{}).
				Where("id = ? AND ack_at IS NULL", logID).
				Updates(map[string]interface{}{"ack_at": now, "latency_ms": latency}).Error; err != nil {
				log.Printf("[MQTT] 回填确认时间失败: id=%d, error=%v", logID, err)
			}
		}
	}

	// 无论是否匹配都广播, 重启后迟到的确认同样值得上报
	s.Events.Broadcast(Event{
		Type:      EventAck,
		Floor:     floor,
		DoorID:    doorID,
		MAC:       frame.MAC,
		Action:    frame.Action,
		Raw:       text,
		Timestamp: EventTimestamp(),
	})
}

// resolveDoorByMAC 通过芯片MAC查找绑定的门, 查不到返回nil而非错误
func (s *GateService) resolveDoorByMAC(mac string) (*models.Door, error) {
	var door models.Door
	err := s.DB.Joins("JOIN chips ON chips.id = doors.chip_id").
		Where("chips.mac = ?", mac).
		First(&door).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &door, nil
}

// Dispatch 下发一条门控指令.
// 先落台账并登记待确认, 再发布到楼层control主题; 登记必须发生在发布之前,
// 否则发布后立刻到达的确认可能找不到待确认记录.
// 发布失败时台账与待确认记录保留原样: 消息是否已到达broker本就无法判定,
// 不做回滚也不做重试.
func (s *GateService) Dispatch(doorID uint, action string) (*DispatchResult, error) {
	if !IsValidAction(action) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}

	var door models.Door
	if err := s.DB.Preload("Chip").First(&door, doorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoorNotFound
		}
		return nil, err
	}

	if door.Chip == nil {
		return nil, ErrDoorNoChip
	}

	mac := door.Chip.MAC
	topic := BuildTopic(s.Config.MQTTTopicPrefix, door.Floor, TopicLeafControl)
	message := EncodeCommand(action, mac)

	// 先创建台账拿到ID, 确保待确认登记与发布之间没有窗口
	entry := models.CommandLog{
		DoorID:      door.ID,
		Action:      action,
		RequestedAt: time.Now(),
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("写入指令台账失败: %v", err)
	}

	s.pending.Register(mac, action, entry.ID)

	if err := s.publish(topic, message); err != nil {
		return nil, fmt.Errorf("发布指令到MQTT失败: %v", err)
	}

	return &DispatchResult{
		Topic:        topic,
		Message:      message,
		CommandLogID: entry.ID,
	}, nil
}

// publish 以QoS 0发布消息; broker收到不代表设备收到, 这层歧义由设计保留
func (s *GateService) publish(topic, message string) error {
	// 加锁保护发布过程，避免并发发布冲突
	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	// 检查连接状态
	s.connectedMutex.RLock()
	isConnected := s.IsConnected && s.Client.IsConnected()
	s.connectedMutex.RUnlock()

	if !isConnected {
		return errors.New("MQTT客户端未连接")
	}

	token := s.Client.Publish(topic, 0, false, message)

	// 设置超时时间，避免无限等待
	if !token.WaitTimeout(3 * time.Second) {
		return errors.New("发布消息超时")
	}

	if token.Error() != nil {
		return token.Error()
	}

	log.Printf("[MQTT] 已发布指令到主题: %s", topic)
	return nil
}

// PendingCount 当前待确认指令数量
func (s *GateService) PendingCount() int {
	return s.pending.Size()
}
