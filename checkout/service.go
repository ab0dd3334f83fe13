package checkout

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/models"
)

// 校验类错误,本地拦下,不打到存储层
var (
	ErrWrongStep   = errors.New("step not reached yet")
	ErrBadFloor    = errors.New("floor must be one of 1-4")
	ErrBadAction   = errors.New("action must be checkIn or checkOut")
	ErrEmptySerial = errors.New("serial number is required")
)

// 提交阶段的结果。前两条是给操作员看的原文案。
var (
	ErrNoMatch        = errors.New("No matching document found")
	ErrNoName         = errors.New("No name field found in the document")
	ErrUpdateFailed   = errors.New("Error updating equipment record")
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// ItemStore 是流程需要的库存子集
type ItemStore interface {
	FindWheelchairBySerial(ctx context.Context, serial string) (*models.Wheelchair, error)
	ApplyCheckoutAction(ctx context.Context, serial string, u db.CheckoutUpdate) error
}

// LogStore 追加借还流水
type LogStore interface {
	AppendTransaction(ctx context.Context, rec *models.TransactionLog) error
}

type Service struct {
	flows Flows
	items ItemStore
	logs  LogStore
}

func NewService(flows Flows, items ItemStore, logs LogStore) *Service {
	return &Service{flows: flows, items: items, logs: logs}
}

// Start 开一个新流程。"Interact" 快捷入口会带上序列号,
// 但只做预填:楼层和动作仍然必须逐步选完。
func (s *Service) Start(ctx context.Context, sid, prefillSerial string) (*Flow, error) {
	f := &Flow{Step: StepSelectFloor, Serial: strings.TrimSpace(prefillSerial)}
	if err := s.flows.Save(ctx, sid, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) Current(ctx context.Context, sid string) (*Flow, error) {
	return s.flows.Load(ctx, sid)
}

// Cancel 关掉弹窗即丢弃全部瞬时状态
func (s *Service) Cancel(ctx context.Context, sid string) error {
	return s.flows.Delete(ctx, sid)
}

func (s *Service) ChooseFloor(ctx context.Context, sid, floor string) (*Flow, error) {
	f, err := s.flows.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if f.Step != StepSelectFloor {
		return nil, ErrWrongStep
	}
	if !models.ValidFloor(floor) {
		return nil, ErrBadFloor
	}
	f.Floor = floor
	f.Step = StepSelectAction
	if err := s.flows.Save(ctx, sid, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) ChooseAction(ctx context.Context, sid, action string) (*Flow, error) {
	f, err := s.flows.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if f.Step != StepSelectAction {
		return nil, ErrWrongStep
	}
	if !models.ValidAction(action) {
		return nil, ErrBadAction
	}
	f.Action = action
	f.Step = StepEnterSerial
	if err := s.flows.Save(ctx, sid, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Submit 确认提交:查序列号、更新库存、追加流水、清状态。
// 出错时流程停留在输序列号那一步,操作员改完直接重试。
func (s *Service) Submit(ctx context.Context, sid, serial, userEmail string) (*models.TransactionLog, error) {
	f, err := s.flows.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if f.Step != StepEnterSerial {
		return nil, ErrWrongStep
	}
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, ErrEmptySerial
	}

	ok, err := s.flows.AcquireSubmit(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 双击确认:第二次什么都不做,保证只有一条流水
		return nil, ErrSubmitInFlight
	}
	defer func() { _ = s.flows.ReleaseSubmit(ctx, sid) }()

	w, err := s.items.FindWheelchairBySerial(ctx, serial)
	if err != nil {
		if errors.Is(err, db.ErrWheelchairNotFound) {
			return nil, ErrNoMatch
		}
		log.Printf("checkout: lookup %q: %v", serial, err)
		return nil, ErrUpdateFailed
	}
	if strings.TrimSpace(w.Name) == "" {
		return nil, ErrNoName
	}

	now := time.Now().UTC()
	if err := s.items.ApplyCheckoutAction(ctx, serial, db.CheckoutUpdate{
		Floor:     f.Floor,
		CheckIn:   f.Action == models.ActionCheckIn,
		UserEmail: userEmail,
		At:        now,
	}); err != nil {
		log.Printf("checkout: update %q: %v", serial, err)
		return nil, ErrUpdateFailed
	}

	rec := &models.TransactionLog{
		ItemSerialNumber: w.Serial,
		ItemName:         w.Name,
		UserEmail:        userEmail,
		ActionType:       f.Action,
		Floor:            f.Floor,
	}
	// 流水失败只记日志,不回滚库存——接受两者间的最终不一致
	if err := s.logs.AppendTransaction(ctx, rec); err != nil {
		log.Printf("checkout: append transaction for %q: %v", serial, err)
	}

	// 等流水写完才清状态,页面此时关掉也不会丢记录
	if err := s.flows.Delete(ctx, sid); err != nil {
		log.Printf("checkout: clear flow %q: %v", sid, err)
	}
	return rec, nil
}
