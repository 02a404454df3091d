package services

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/antonisk2077/ISK-Doorlock-v2/config"
	"github.com/antonisk2077/ISK-Doorlock-v2/models"

	"gorm.io/gorm"
)

// PingCountRow 每扇门最近1天/7天的心跳计数
type PingCountRow struct {
	DoorID      uint   `json:"door_id"`
	Floor       int    `json:"floor"`
	RoomNo      string `json:"room_no"`
	ChipNo      string `json:"chip_no"`
	MAC         string `json:"mac"`
	PingCount1d int    `json:"ping_count_1d"`
	PingCount7d int    `json:"ping_count_7d"`
}

// HealthRow 基于最后一次心跳推导的健康状态
type HealthRow struct {
	DoorID     uint       `json:"door_id"`
	Floor      int        `json:"floor"`
	RoomNo     string     `json:"room_no"`
	MAC        string     `json:"mac"`
	LastPingAt *time.Time `json:"last_ping_at"`
	PingAgeMin *float64   `json:"ping_age_min"`
	Healthy    bool       `json:"healthy"`
}

// DowntimeRow 今日停机分钟数估算
type DowntimeRow struct {
	DoorID          uint   `json:"door_id"`
	Floor           int    `json:"floor"`
	RoomNo          string `json:"room_no"`
	MAC             string `json:"mac"`
	DowntimeMinutes int    `json:"downtime_min_today"`
}

// InterfaceMonitorService 定义监控服务接口
type InterfaceMonitorService interface {
	GetPingCounts() ([]PingCountRow, error)
	GetHealth() ([]HealthRow, error)
	GetDowntimeToday() ([]DowntimeRow, error)
}

// MonitorService 只读地从心跳台账推导健康度与停机估算
type MonitorService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  *RedisService

	location *time.Location
}

// 聚合查询结果的短缓存
const metricsCacheTTL = 30 * time.Second

// NewMonitorService 创建一个新的监控服务
func NewMonitorService(db *gorm.DB, cfg *config.Config, redisService *RedisService) InterfaceMonitorService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("[监控] 加载时区%s失败: %v, 回退到UTC", cfg.Timezone, err)
		loc = time.UTC
	}

	return &MonitorService{
		DB:       db,
		Config:   cfg,
		Redis:    redisService,
		location: loc,
	}
}

// heartbeatBudget 标称心跳间隔与宽限
func (s *MonitorService) heartbeatBudget() (interval, tolerance time.Duration) {
	interval = time.Duration(s.Config.HeartbeatIntervalMinutes) * time.Minute
	tolerance = time.Duration(s.Config.HeartbeatToleranceMinutes) * time.Minute
	return interval, tolerance
}

// GetPingCounts 每扇门最近1天与7天的心跳计数
func (s *MonitorService) GetPingCounts() ([]PingCountRow, error) {
	var rows []PingCountRow
	if s.cacheGet("metrics:ping_count", &rows) {
		return rows, nil
	}

	err := s.DB.Raw(`
		SELECT d.id AS door_id, d.floor, d.room_no,
		       COALESCE(c.chip_no, '') AS chip_no, COALESCE(c.mac, '') AS mac,
		       COUNT(CASE WHEN pl.ping_at >= NOW() - INTERVAL 1 DAY THEN 1 END) AS ping_count_1d,
		       COUNT(CASE WHEN pl.ping_at >= NOW() - INTERVAL 7 DAY THEN 1 END) AS ping_count_7d
		  FROM doors d
		  LEFT JOIN chips c ON c.id = d.chip_id
		  LEFT JOIN ping_logs pl ON pl.door_id = d.id
		 GROUP BY d.id, d.floor, d.room_no, c.chip_no, c.mac
		 ORDER BY d.floor, d.room_no`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	s.cacheSet("metrics:ping_count", rows)
	return rows, nil
}

// isHealthy 纯判定: 最后心跳距今不超过间隔+宽限即视为健康, 从无心跳恒为不健康
func isHealthy(lastPing time.Time, now time.Time, interval, tolerance time.Duration) bool {
	if lastPing.IsZero() {
		return false
	}
	return now.Sub(lastPing) <= interval+tolerance
}

// GetHealth 每扇门的存活判定, 完全由心跳到达模式推导
func (s *MonitorService) GetHealth() ([]HealthRow, error) {
	var rows []HealthRow
	err := s.DB.Raw(`
		SELECT d.id AS door_id, d.floor, d.room_no, COALESCE(c.mac, '') AS mac,
		       MAX(pl.ping_at) AS last_ping_at
		  FROM doors d
		  LEFT JOIN chips c ON c.id = d.chip_id
		  LEFT JOIN ping_logs pl ON pl.door_id = d.id
		 GROUP BY d.id, d.floor, d.room_no, c.mac
		 ORDER BY d.floor, d.room_no`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	interval, tolerance := s.heartbeatBudget()
	now := time.Now()

	for i := range rows {
		if rows[i].LastPingAt != nil {
			ageMin := now.Sub(*rows[i].LastPingAt).Minutes()
			rows[i].PingAgeMin = &ageMin
			rows[i].Healthy = isHealthy(*rows[i].LastPingAt, now, interval, tolerance)
		}
	}
	return rows, nil
}

// downtimeMinutes 纯计算: 相邻心跳间隔超过(间隔+宽限)时,
// 只把超出标称间隔的部分计为停机, 结果取整到分钟
func downtimeMinutes(times []time.Time, interval, tolerance time.Duration) int {
	var total float64
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		if gap > interval+tolerance {
			total += (gap - interval).Minutes()
		}
	}
	if total < 0 {
		total = 0
	}
	return int(math.Round(total))
}

// GetDowntimeToday 自本地(固定时区)零点起的停机分钟估算, 按楼层+房号排序
func (s *MonitorService) GetDowntimeToday() ([]DowntimeRow, error) {
	var rows []DowntimeRow
	if s.cacheGet("metrics:downtime_today", &rows) {
		return rows, nil
	}

	var doors []models.Door
	if err := s.DB.Preload("Chip").Find(&doors).Error; err != nil {
		return nil, err
	}

	now := time.Now().In(s.location)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	var pings []models.PingLog
	if err := s.DB.Where("ping_at >= ?", midnight).
		Order("door_id, ping_at").
		Find(&pings).Error; err != nil {
		return nil, err
	}

	timesByDoor := make(map[uint][]time.Time)
	for _, p := range pings {
		timesByDoor[p.DoorID] = append(timesByDoor[p.DoorID], p.PingAt)
	}

	interval, tolerance := s.heartbeatBudget()

	for _, door := range doors {
		mac := ""
		if door.Chip != nil {
			mac = door.Chip.MAC
		}
		rows = append(rows, DowntimeRow{
			DoorID:          door.ID,
			Floor:           door.Floor,
			RoomNo:          door.RoomNo,
			MAC:             mac,
			DowntimeMinutes: downtimeMinutes(timesByDoor[door.ID], interval, tolerance),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Floor != rows[j].Floor {
			return rows[i].Floor < rows[j].Floor
		}
		return rows[i].RoomNo < rows[j].RoomNo
	})

	s.cacheSet("metrics:downtime_today", rows)
	return rows, nil
}

// cacheGet 从Redis读取聚合缓存, 未配置或未命中返回false
func (s *MonitorService) cacheGet(key string, dest interface{}) bool {
	if s.Redis == nil {
		return false
	}
	return s.Redis.Get(key, dest) == nil
}

// cacheSet 将聚合结果写入Redis短缓存, 失败只记日志
func (s *MonitorService) cacheSet(key string, value interface{}) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Set(key, value, metricsCacheTTL); err != nil {
		log.Printf("[监控] 写入缓存失败: key=%s, error=%v", key, err)
	}
}
