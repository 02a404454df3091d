package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingRegisterAndConsume(t *testing.T) {
	table := newPendingAckTable()

	table.Register("AA:BB", ActionOpen, 42)
	assert.Equal(t, 1, table.Size())

	logID, ok := table.Consume("AA:BB", ActionOpen)
	require.True(t, ok)
	assert.Equal(t, uint(42), logID)
	assert.Equal(t, 0, table.Size())
}

func TestPendingConsumeIsAtMostOnce(t *testing.T) {
	table := newPendingAckTable()
	table.Register("AA:BB", ActionOpen, 42)

	_, ok := table.Consume("AA:BB", ActionOpen)
	require.True(t, ok)

	// 重复确认不能再次命中
	_, ok = table.Consume("AA:BB", ActionOpen)
	assert.False(t, ok)
}

func TestPendingRedispatchSupersedes(t *testing.T) {
	table := newPendingAckTable()

	// 同一(MAC, 动作)重复下发, 新台账ID覆盖旧的
	table.Register("AA:BB", ActionOpen, 1)
	table.Register("AA:BB", ActionOpen, 2)
	assert.Equal(t, 1, table.Size())

	logID, ok := table.Consume("AA:BB", ActionOpen)
	require.True(t, ok)
	assert.Equal(t, uint(2), logID)

	// 被覆盖的指令1从此无法匹配
	_, ok = table.Consume("AA:BB", ActionOpen)
	assert.False(t, ok)
}

func TestPendingKeysAreIndependent(t *testing.T) {
	table := newPendingAckTable()

	table.Register("AA:BB", ActionOpen, 1)
	table.Register("AA:BB", ActionClose, 2)
	table.Register("CC:DD", ActionOpen, 3)
	assert.Equal(t, 3, table.Size())

	logID, ok := table.Consume("AA:BB", ActionClose)
	require.True(t, ok)
	assert.Equal(t, uint(2), logID)
	assert.Equal(t, 2, table.Size())

	// 其他键不受影响
	_, ok = table.Consume("AA:BB", ActionOpen)
	assert.True(t, ok)
	_, ok = table.Consume("CC:DD", ActionOpen)
	assert.True(t, ok)
}

func TestPendingConsumeUnknownKey(t *testing.T) {
	table := newPendingAckTable()

	_, ok := table.Consume("AA:BB", ActionOpen)
	assert.False(t, ok)
}
