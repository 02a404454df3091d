package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// 通道叶子名: 下行控制 / 上行确认 / 上行心跳
const (
	TopicLeafControl = "control"
	TopicLeafStatus  = "status"
	TopicLeafHealth  = "health"
)

// 帧标记
const (
	FrameHeartbeat = "PING"
	FrameAck       = "ACK"
)

// 指令词汇表, Dispatch只接受这两个动作
const (
	ActionOpen  = "open"
	ActionClose = "close"
)

// IsValidAction 校验动作是否在封闭词汇表内
func IsValidAction(action string) bool {
	return action == ActionOpen || action == ActionClose
}

// BuildTopic 构造 "<prefix>/floor<N>/<leaf>" 形式的主题
func BuildTopic(prefix string, floor int, leaf string) string {
	return fmt.Sprintf("%s/floor%d/%s", prefix, floor, leaf)
}

// AckFrame 设备对指令的确认帧, 动作本身允许包含逗号
type AckFrame struct {
	MAC    string
	Action string
}

// topicPattern 编译入站主题匹配规则, 与BuildTopic使用同一套楼层编号
func topicPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `/floor(\d+)/(` + TopicLeafStatus + `|` + TopicLeafHealth + `)$`)
}

// ParseTopic 识别入站主题的楼层与消息类别, 无关主题返回ok=false
func ParseTopic(prefix, topic string) (floor int, leaf string, ok bool) {
	m := topicPattern(prefix).FindStringSubmatch(topic)
	if m == nil {
		return 0, "", false
	}
	floor, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return floor, m[2], true
}

// ParseHeartbeat 解析 "PING,<mac>" 心跳帧; 共享通道上的噪声直接丢弃
func ParseHeartbeat(payload string) (mac string, ok bool) {
	parts := strings.Split(payload, ",")
	if len(parts) < 2 || parts[0] != FrameHeartbeat {
		return "", false
	}
	mac = strings.TrimSpace(parts[1])
	if mac == "" {
		return "", false
	}
	return mac, true
}

// ParseAck 解析 "ACK,<mac>,<action...>" 确认帧, 动作字段按逗号重新拼回
func ParseAck(payload string) (AckFrame, bool) {
	parts := strings.Split(payload, ",")
	if len(parts) < 3 || parts[0] != FrameAck {
		return AckFrame{}, false
	}
	mac := strings.TrimSpace(parts[1])
	action := strings.TrimSpace(strings.Join(parts[2:], ","))
	if mac == "" || action == "" {
		return AckFrame{}, false
	}
	return AckFrame{MAC: mac, Action: action}, true
}

// EncodeCommand 编码下行指令帧 "<action>,<mac>", 不做转义
func EncodeCommand(action, mac string) string {
	return action + "," + mac
}
