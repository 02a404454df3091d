package services

import "sync"

// pendingAckTable 待确认表: (mac, action) -> 指令台账ID, 仅存活于进程内存.
// 同键重复下发会覆盖旧条目, 被覆盖的指令从此无法再被匹配;
// 进程重启后所有待确认状态丢失, 迟到的确认只能以未匹配事件上报.
type pendingAckTable struct {
	mu      sync.Mutex
	entries map[string]uint
}

func newPendingAckTable() *pendingAckTable {
	return &pendingAckTable{entries: make(map[string]uint)}
}

func pendingKey(mac, action string) string {
	return mac + "|" + action
}

// Register 登记(或覆盖)一条待确认记录, 必须先于publish调用
func (t *pendingAckTable) Register(mac, action string, logID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[pendingKey(mac, action)] = logID
}

// Consume 取出并删除待确认记录, 保证同一条指令至多被确认一次
func (t *pendingAckTable) Consume(mac, action string) (uint, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := pendingKey(mac, action)
	logID, ok := t.entries[key]
	if ok {
		delete(t.entries, key)
	}
	return logID, ok
}

// Size 当前待确认数量, 作为可观测指标对外暴露
func (t *pendingAckTable) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
