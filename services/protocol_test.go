package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTopic(t *testing.T) {
	assert.Equal(t, "jatinegara/floor5/control", BuildTopic("jatinegara", 5, TopicLeafControl))
	assert.Equal(t, "jatinegara/floor12/status", BuildTopic("jatinegara", 12, TopicLeafStatus))
	assert.Equal(t, "site/floor3/health", BuildTopic("site", 3, TopicLeafHealth))
}

func TestParseTopic(t *testing.T) {
	floor, leaf, ok := ParseTopic("jatinegara", "jatinegara/floor5/status")
	require.True(t, ok)
	assert.Equal(t, 5, floor)
	assert.Equal(t, TopicLeafStatus, leaf)

	// 楼层不要求连续, 大编号同样识别
	floor, leaf, ok = ParseTopic("jatinegara", "jatinegara/floor17/health")
	require.True(t, ok)
	assert.Equal(t, 17, floor)
	assert.Equal(t, TopicLeafHealth, leaf)
}

func TestParseTopicRejectsUnrelated(t *testing.T) {
	cases := []string{
		"jatinegara/floor5/control",     // 下行主题不作为入站消息处理
		"jatinegara/floor5/other",       // 未知叶子
		"other/floor5/status",           // 前缀不匹配
		"jatinegara/floorX/status",      // 楼层不是数字
		"jatinegara/floor5/status/more", // 多余层级
		"jatinegara/floor5",             // 缺少叶子
	}

	for _, topic := range cases {
		_, _, ok := ParseTopic("jatinegara", topic)
		assert.False(t, ok, "topic %q 不应被识别", topic)
	}
}

func TestParseHeartbeat(t *testing.T) {
	mac, ok := ParseHeartbeat("PING,AA:BB:CC:DD:EE:FF")
	require.True(t, ok)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", mac)

	// 多余字段不影响MAC解析
	mac, ok = ParseHeartbeat("PING,AA:BB:CC:DD:EE:FF,extra")
	require.True(t, ok)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", mac)
}

func TestParseHeartbeatRejectsMalformed(t *testing.T) {
	cases := []string{
		"PING",      // 缺少MAC
		"PING,",     // MAC为空
		"PONG,AABB", // 帧标记错误
		"",          // 空载荷
		"garbage",   // 共享通道上的噪声
	}

	for _, payload := range cases {
		_, ok := ParseHeartbeat(payload)
		assert.False(t, ok, "payload %q 不应被识别为心跳", payload)
	}
}

func TestParseAck(t *testing.T) {
	frame, ok := ParseAck("ACK,AA:BB:CC:DD:EE:FF,open")
	require.True(t, ok)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", frame.MAC)
	assert.Equal(t, "open", frame.Action)
}

func TestParseAckRejoinsActionWithCommas(t *testing.T) {
	// 动作字段本身含逗号时必须原样拼回
	frame, ok := ParseAck("ACK,AA:BB,open,now")
	require.True(t, ok)
	assert.Equal(t, "AA:BB", frame.MAC)
	assert.Equal(t, "open,now", frame.Action)
}

func TestParseAckRejectsMalformed(t *testing.T) {
	cases := []string{
		"ACK",          // 只有帧标记
		"ACK,AA:BB",    // 缺少动作
		"ACK,,open",    // MAC为空
		"NACK,AA,open", // 帧标记错误
		"",
	}

	for _, payload := range cases {
		_, ok := ParseAck(payload)
		assert.False(t, ok, "payload %q 不应被识别为确认", payload)
	}
}

func TestEncodeCommand(t *testing.T) {
	assert.Equal(t, "open,AA:BB:CC:DD:EE:FF", EncodeCommand(ActionOpen, "AA:BB:CC:DD:EE:FF"))
	assert.Equal(t, "close,AA:BB:CC:DD:EE:FF", EncodeCommand(ActionClose, "AA:BB:CC:DD:EE:FF"))
}

func TestIsValidAction(t *testing.T) {
	assert.True(t, IsValidAction(ActionOpen))
	assert.True(t, IsValidAction(ActionClose))
	assert.False(t, IsValidAction("unlock"))
	assert.False(t, IsValidAction("OPEN"))
	assert.False(t, IsValidAction(""))
}
