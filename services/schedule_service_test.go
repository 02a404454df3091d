package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleDueNormalWindow(t *testing.T) {
	openAt, closeAt := "08:00", "18:00"

	// 窗口前: 都不触发
	fireOpen, fireClose := scheduleDue(false, false, openAt, closeAt, "07:59")
	assert.False(t, fireOpen)
	assert.False(t, fireClose)

	// 窗口内: 只触发开门
	fireOpen, fireClose = scheduleDue(false, false, openAt, closeAt, "08:00")
	assert.True(t, fireOpen)
	assert.False(t, fireClose)

	// 开门已发, 窗口内不再重复
	fireOpen, fireClose = scheduleDue(true, false, openAt, closeAt, "12:30")
	assert.False(t, fireOpen)
	assert.False(t, fireClose)

	// 到达关门时刻: 只触发关门
	fireOpen, fireClose = scheduleDue(true, false, openAt, closeAt, "18:00")
	assert.False(t, fireOpen)
	assert.True(t, fireClose)

	// 关门已发: 不再触发
	fireOpen, fireClose = scheduleDue(true, true, openAt, closeAt, "23:00")
	assert.False(t, fireOpen)
	assert.False(t, fireClose)
}

func TestScheduleDueMissedOpenStillFiresLate(t *testing.T) {
	// 服务在窗口中途才启动(或tick跳过), 开门仍会在窗口内补发
	fireOpen, fireClose := scheduleDue(false, false, "08:00", "18:00", "15:42")
	assert.True(t, fireOpen)
	assert.False(t, fireClose)

	// 窗口已过且开门从未发出: 开门不再补发, 关门正常触发
	fireOpen, fireClose = scheduleDue(false, false, "08:00", "18:00", "19:00")
	assert.False(t, fireOpen)
	assert.True(t, fireClose)
}

func TestScheduleDueDegenerateWindow(t *testing.T) {
	// close <= open 的排程照常接受: 开门永远不在窗口内, 关门到点即触发
	for _, hhmm := range []string{"00:00", "08:00", "17:59", "18:00", "23:59"} {
		fireOpen, _ := scheduleDue(false, false, "18:00", "08:00", hhmm)
		assert.False(t, fireOpen, "hhmm=%s 不应触发开门", hhmm)
	}

	fireOpen, fireClose := scheduleDue(false, false, "18:00", "08:00", "07:59")
	assert.False(t, fireOpen)
	assert.False(t, fireClose)

	fireOpen, fireClose = scheduleDue(false, false, "18:00", "08:00", "08:00")
	assert.False(t, fireOpen)
	assert.True(t, fireClose)
}

func TestScheduleDueSimulatedDay(t *testing.T) {
	// 以30秒tick的粒度模拟一整天, 开/关各只触发一次
	openSent, closeSent := false, false
	openCount, closeCount := 0, 0

	for hour := 0; hour < 24; hour++ {
		for min := 0; min < 60; min++ {
			hhmm := timeOfDay(hour, min)
			fireOpen, fireClose := scheduleDue(openSent, closeSent, "08:00", "18:00", hhmm)
			if fireOpen {
				openSent = true
				openCount++
			}
			if fireClose {
				closeSent = true
				closeCount++
			}
		}
	}

	assert.Equal(t, 1, openCount)
	assert.Equal(t, 1, closeCount)
}

func timeOfDay(hour, min int) string {
	const digits = "0123456789"
	return string([]byte{
		digits[hour/10], digits[hour%10], ':',
		digits[min/10], digits[min%10],
	})
}

func TestNormalizeHHMM(t *testing.T) {
	value, err := normalizeHHMM("08:00")
	assert.NoError(t, err)
	assert.Equal(t, "08:00", value)

	// 秒数被截断
	value, err = normalizeHHMM("18:30:00")
	assert.NoError(t, err)
	assert.Equal(t, "18:30", value)

	for _, bad := range []string{"8:00", "0800", "25h", ""} {
		_, err := normalizeHHMM(bad)
		assert.Error(t, err, "value %q 应被拒绝", bad)
	}
}

func TestHHMMOf(t *testing.T) {
	assert.Equal(t, "08:00", hhmmOf("08:00:15"))
	assert.Equal(t, "08:00", hhmmOf("08:00"))
}
