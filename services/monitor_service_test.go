package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	testInterval  = 720 * time.Minute
	testTolerance = 4 * time.Minute
)

func TestIsHealthy(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// 心跳间隔加容差以内都算健康
	assert.True(t, isHealthy(now.Add(-1*time.Minute), now, testInterval, testTolerance))
	assert.True(t, isHealthy(now.Add(-723*time.Minute), now, testInterval, testTolerance))
	assert.True(t, isHealthy(now.Add(-724*time.Minute), now, testInterval, testTolerance))

	// 超出容差即判定离线
	assert.False(t, isHealthy(now.Add(-725*time.Minute), now, testInterval, testTolerance))
}

func TestIsHealthyNoHeartbeat(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// 从未收到心跳的门不健康
	assert.False(t, isHealthy(time.Time{}, now, testInterval, testTolerance))
}

func TestDowntimeMinutes(t *testing.T) {
	base := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	// 间隔728分钟 > 724: 记 728-720 = 8 分钟掉线
	times := []time.Time{at(0), at(720), at(1448)}
	assert.Equal(t, 8, downtimeMinutes(times, testInterval, testTolerance))
}

func TestDowntimeMinutesWithinTolerance(t *testing.T) {
	base := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	// 间隔未超过724分钟: 不计掉线
	times := []time.Time{at(0), at(720), at(1444)}
	assert.Equal(t, 0, downtimeMinutes(times, testInterval, testTolerance))
}

func TestDowntimeMinutesAccumulatesGaps(t *testing.T) {
	base := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	// 两段超限间隔分别计入: (730-720) + (1450-720) = 740
	times := []time.Time{at(0), at(730), at(2180)}
	assert.Equal(t, 740, downtimeMinutes(times, testInterval, testTolerance))
}

func TestDowntimeMinutesDegenerateInputs(t *testing.T) {
	base := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, downtimeMinutes(nil, testInterval, testTolerance))
	assert.Equal(t, 0, downtimeMinutes([]time.Time{base}, testInterval, testTolerance))
}

func TestDowntimeMinutesRounds(t *testing.T) {
	base := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	// 间隔724.5分钟: 超限, 记 4.5 分钟, 四舍五入到 5
	times := []time.Time{base, base.Add(724*time.Minute + 30*time.Second)}
	assert.Equal(t, 5, downtimeMinutes(times, testInterval, testTolerance))
}
