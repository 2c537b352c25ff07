// internal/notify/mqtt.go

package notify

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"virtualroom/internal/config"
	"virtualroom/internal/events"
	"virtualroom/internal/logger"
)

const (
	publishTimeout = 5 * time.Second
	queueSize      = 256
)

// topicEscaper 房间号中的层级分隔符和通配符不能直接出现在发布主题中
var topicEscaper = strings.NewReplacer("%", "%25", "/", "%2F", "+", "%2B", "#", "%23")

// Publisher 是 mqtt.Client 中用到的部分
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTNotifier 把房间状态以 retained 消息推送到 MQTT
type MQTTNotifier struct {
	client      Publisher
	topicPrefix string
	qos         byte
	subs        []events.Subscription
	bus         *events.EventBus

	mu     sync.Mutex
	closed bool
	queue  chan events.Event
	done   chan struct{}
}

// Connect 连接 MQTT broker
func Connect(cfg config.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetKeepAlive(60 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

func NewMQTTNotifier(client Publisher, topicPrefix string, qos byte) *MQTTNotifier {
	return &MQTTNotifier{
		client:      client,
		topicPrefix: topicPrefix,
		qos:         qos,
	}
}

// Topic {prefix}/{partition}/{room}/state，分区和房间号中的 / + # % 做百分号编码
func (n *MQTTNotifier) Topic(partitionKey, roomID string) string {
	return fmt.Sprintf("%s/%s/%s/state", n.topicPrefix, topicEscaper.Replace(partitionKey), topicEscaper.Replace(roomID))
}

// Attach 订阅房间创建和状态变化事件，并启动发布协程
func (n *MQTTNotifier) Attach(bus *events.EventBus) {
	n.mu.Lock()
	n.bus = bus
	n.closed = false
	n.queue = make(chan events.Event, queueSize)
	n.done = make(chan struct{})
	n.mu.Unlock()

	go n.run(n.queue, n.done)

	for _, et := range []events.EventType{events.EventRoomCreated, events.EventRoomStateChange} {
		n.subs = append(n.subs, bus.Subscribe(et, n.handle))
	}
}

// Detach 取消订阅，等待队列中的状态发布完毕
func (n *MQTTNotifier) Detach() {
	if n.bus == nil {
		return
	}
	for _, sub := range n.subs {
		n.bus.Unsubscribe(sub)
	}
	n.subs = nil

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	done := n.done
	n.mu.Unlock()

	<-done
}

func (n *MQTTNotifier) handle(e events.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.queue <- e
}

// run 单协程按顺序发布，同一房间比已发布事件更旧的事件直接丢弃
func (n *MQTTNotifier) run(queue <-chan events.Event, done chan<- struct{}) {
	defer close(done)

	latest := map[string]uint64{}
	for e := range queue {
		data, ok := e.Data.(events.RoomStateEventData)
		if !ok {
			continue
		}
		key := data.PartitionKey + "/" + data.RoomID
		if e.Seq != 0 && e.Seq <= latest[key] {
			logger.Debug("dropping stale %s for room %s (seq %d)", e.Type, e.RoomID, e.Seq)
			continue
		}
		latest[key] = e.Seq

		if err := n.Publish(data); err != nil {
			logger.Warn("%s for room %s not published: %v", e.Type, e.RoomID, err)
		}
	}
}

// Publish 推送一次房间状态
func (n *MQTTNotifier) Publish(data events.RoomStateEventData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	topic := n.Topic(data.PartitionKey, data.RoomID)
	token := n.client.Publish(topic, n.qos, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	logger.Debug("published room %s state to %s", data.RoomID, topic)
	return nil
}
