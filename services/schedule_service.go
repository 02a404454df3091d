package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/antonisk2077/ISK-Doorlock-v2/config"
	"github.com/antonisk2077/ISK-Doorlock-v2/models"

	"gorm.io/gorm"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
)

// InterfaceScheduleService 定义排程服务接口
type InterfaceScheduleService interface {
	ListSchedules(date string) ([]models.Schedule, error)
	UpsertSchedule(doorID uint, scheduleDate, openTime, closeTime string, enabled bool) (*models.Schedule, error)
	DeleteSchedule(id uint) error
	StartScheduler()
	StopScheduler()
}

// ScheduleService 排程的维护与周期性触发.
// 每个tick在固定时区内计算"今天"和"现在", 与服务器本地时区无关;
// 窗口的两次触发各自由sent标记守护, tick频率和抖动不会造成重复触发.
type ScheduleService struct {
	DB     *gorm.DB
	Config *config.Config
	Gate   InterfaceGateService
	Events InterfaceEventService

	location *time.Location
	stopCh   chan struct{}
	stopOnce sync.Once
	tickMu   sync.Mutex // 防止tick自身重叠
}

// NewScheduleService 创建一个新的排程服务
func NewScheduleService(db *gorm.DB, cfg *config.Config, gate InterfaceGateService, events InterfaceEventService) InterfaceScheduleService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("[排程] 加载时区%s失败: %v, 回退到UTC", cfg.Timezone, err)
		loc = time.UTC
	}

	return &ScheduleService{
		DB:       db,
		Config:   cfg,
		Gate:     gate,
		Events:   events,
		location: loc,
		stopCh:   make(chan struct{}),
	}
}

// ListSchedules 查询排程, date为空时返回最近的300条
func (s *ScheduleService) ListSchedules(date string) ([]models.Schedule, error) {
	var schedules []models.Schedule

	query := s.DB.Preload("Door").Preload("Door.Chip").
		Joins("JOIN doors ON doors.id = schedules.door_id")

	if date != "" {
		if !datePattern.MatchString(date) {
			return nil, errors.New("日期格式必须为YYYY-MM-DD")
		}
		query = query.Where("schedules.schedule_date = ?", date).
			Order("doors.floor, doors.room_no, schedules.open_time")
	} else {
		query = query.Order("schedules.schedule_date DESC, doors.floor, doors.room_no, schedules.open_time").
			Limit(300)
	}

	if err := query.Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// UpsertSchedule 按(门, 日期)唯一地创建或更新窗口.
// 更新时清空两个sent标记, 使窗口当天可以重新触发; 唯一性由存储层约束兜底.
func (s *ScheduleService) UpsertSchedule(doorID uint, scheduleDate, openTime, closeTime string, enabled bool) (*models.Schedule, error) {
	if !datePattern.MatchString(scheduleDate) {
		return nil, errors.New("日期格式必须为YYYY-MM-DD")
	}
	openTime, err := normalizeHHMM(openTime)
	if err != nil {
		return nil, err
	}
	closeTime, err = normalizeHHMM(closeTime)
	if err != nil {
		return nil, err
	}

	// 门必须存在
	var door models.Door
	if err := s.DB.First(&door, doorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoorNotFound
		}
		return nil, err
	}

	var schedule models.Schedule
	err = s.DB.Where("door_id = ? AND schedule_date = ?", doorID, scheduleDate).First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		schedule = models.Schedule{
			DoorID:       doorID,
			ScheduleDate: scheduleDate,
			OpenTime:     openTime,
			CloseTime:    closeTime,
			Enabled:      enabled,
		}
		if err := s.DB.Create(&schedule).Error; err != nil {
			return nil, err
		}
		return &schedule, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"open_time":     openTime,
		"close_time":    closeTime,
		"enabled":       enabled,
		"open_sent_at":  nil,
		"close_sent_at": nil,
	}
	if err := s.DB.Model(&schedule).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.DB.First(&schedule, schedule.ID).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

// DeleteSchedule 删除排程
func (s *ScheduleService) DeleteSchedule(id uint) error {
	return s.DB.Delete(&models.Schedule{}, id).Error
}

// StartScheduler 启动周期性触发循环
func (s *ScheduleService) StartScheduler() {
	tickSeconds := s.Config.SchedulerTickSeconds
	if tickSeconds < 5 {
		tickSeconds = 5
	}

	go func() {
		ticker := time.NewTicker(time.Duration(tickSeconds) * time.Second)
		defer ticker.Stop()

		log.Printf("[排程] 定时扫描已启动, 间隔%d秒, 时区%s", tickSeconds, s.location)

		for {
			select {
			case <-ticker.C:
				s.runTick()
			case <-s.stopCh:
				return
			}
		}
	}()
}

// StopScheduler 停止周期性触发循环
func (s *ScheduleService) StopScheduler() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// runTick 单次扫描: 加载今天所有启用的窗口并逐个评估.
// 上一个tick还没结束时直接跳过本次, 避免并发争用sent标记.
func (s *ScheduleService) runTick() {
	if !s.tickMu.TryLock() {
		log.Println("[排程] 上一次扫描尚未结束, 跳过本次tick")
		return
	}
	defer s.tickMu.Unlock()

	now := time.Now().In(s.location)
	today := now.Format("2006-01-02")
	hhmm := now.Format("15:04")

	var schedules []models.Schedule
	if err := s.DB.Where("enabled = ? AND schedule_date = ?", true, today).Find(&schedules).Error; err != nil {
		log.Printf("[排程] 加载今日排程失败: %v", err)
		return
	}

	for i := range schedules {
		// 单个窗口失败不影响同一tick内的其它窗口
		s.fireWindow(&schedules[i], hhmm)
	}
}

// scheduleDue 纯判定: 给定窗口状态与当前HH:MM, 决定本tick该触发哪些动作.
// open要求now落在[open, close)区间内, close只要求now越过close;
// close <= open的倒置窗口因此退化为"open永不触发, close到点即触发",
// 这是沿用的既有行为, 可能是潜在缺陷但不在此处修正.
func scheduleDue(openSent, closeSent bool, openTime, closeTime, hhmm string) (fireOpen, fireClose bool) {
	fireOpen = !openSent && hhmm >= openTime && hhmm < closeTime
	fireClose = !closeSent && hhmm >= closeTime
	return fireOpen, fireClose
}

// fireWindow 评估一个窗口并执行到期的下发, 两次触发互相独立
func (s *ScheduleService) fireWindow(schedule *models.Schedule, hhmm string) {
	openTime := hhmmOf(schedule.OpenTime)
	closeTime := hhmmOf(schedule.CloseTime)

	fireOpen, fireClose := scheduleDue(
		schedule.OpenSentAt != nil, schedule.CloseSentAt != nil,
		openTime, closeTime, hhmm,
	)

	if fireOpen {
		s.fireAction(schedule, ActionOpen, "open_sent_at")
	}

	if fireClose {
		s.fireAction(schedule, ActionClose, "close_sent_at")
	}
}

// fireAction 为窗口下发一个动作并打上sent标记.
// 走与交互式请求相同的Dispatch, 两者共用同一个确认关联槽位,
// 同键并发在途时后写者胜出.
func (s *ScheduleService) fireAction(schedule *models.Schedule, action, sentColumn string) {
	if _, err := s.Gate.Dispatch(schedule.DoorID, action); err != nil {
		log.Printf("[排程] 下发%s失败: scheduleID=%d, doorID=%d, error=%v",
			action, schedule.ID, schedule.DoorID, err)
		return
	}

	if err := s.DB.Model(&models.Schedule{}).
		Where("id = ?", schedule.ID).
		Update(sentColumn, time.Now()).Error; err != nil {
		log.Printf("[排程] 更新%s失败: scheduleID=%d, error=%v", sentColumn, schedule.ID, err)
	}

	doorID := schedule.DoorID
	s.Events.Broadcast(Event{
		Type:       EventScheduleFired,
		ScheduleID: schedule.ID,
		DoorID:     &doorID,
		Action:     action,
		Timestamp:  EventTimestamp(),
	})
}

// normalizeHHMM 归一化时间为HH:MM, 允许输入带秒
func normalizeHHMM(value string) (string, error) {
	if !timePattern.MatchString(value) {
		return "", fmt.Errorf("时间格式必须为HH:MM: %s", value)
	}
	return value[:5], nil
}

// hhmmOf 截取存储值的HH:MM部分
func hhmmOf(value string) string {
	if len(value) > 5 {
		return value[:5]
	}
	return value
}
