// Package checkout 实现三步借还流程:选楼层 → 选动作 → 输序列号提交。
// 状态按会话存在 Redis 里,提交成功或取消就丢弃,从不落库。
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 流程步骤。没有状态即 idle,重新进入从选楼层开始。
const (
	StepSelectFloor  = "selectFloor"
	StepSelectAction = "selectAction"
	StepEnterSerial  = "enterSerial"
)

// Flow 一次借还尝试的瞬时状态
type Flow struct {
	Step   string `json:"step"`
	Floor  string `json:"floor,omitempty"`
	Action string `json:"action,omitempty"`
	Serial string `json:"serial,omitempty"`
}

// Flows 抽出接口方便测试时用内存实现
type Flows interface {
	Save(ctx context.Context, sid string, f *Flow) error
	Load(ctx context.Context, sid string) (*Flow, error)
	Delete(ctx context.Context, sid string) error
	// AcquireSubmit 拿提交闸;同一会话已有提交在途时返回 false
	AcquireSubmit(ctx context.Context, sid string) (bool, error)
	ReleaseSubmit(ctx context.Context, sid string) error
}

var ErrNoFlow = errors.New("no checkout in progress")

// FlowStore 把流程状态放 Redis,TTL 兜底清理被遗忘的弹窗
type FlowStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewFlowStore(rdb *redis.Client, ttl time.Duration) *FlowStore {
	return &FlowStore{rdb: rdb, ttl: ttl}
}

func flowKey(sid string) string  { return fmt.Sprintf("checkout:flow:%s", sid) }
func guardKey(sid string) string { return fmt.Sprintf("checkout:submit:%s", sid) }

func (s *FlowStore) Save(ctx context.Context, sid string, f *Flow) error {
	b, _ := json.Marshal(f)
	return s.rdb.Set(ctx, flowKey(sid), b, s.ttl).Err()
}

func (s *FlowStore) Load(ctx context.Context, sid string) (*Flow, error) {
	b, err := s.rdb.Get(ctx, flowKey(sid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoFlow
		}
		return nil, err
	}
	var f Flow
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *FlowStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, flowKey(sid)).Err()
}

func (s *FlowStore) AcquireSubmit(ctx context.Context, sid string) (bool, error) {
	// 30 秒兜底,进程半路挂掉也不会永久锁死这个会话
	return s.rdb.SetNX(ctx, guardKey(sid), "1", 30*time.Second).Result()
}

func (s *FlowStore) ReleaseSubmit(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, guardKey(sid)).Err()
}
