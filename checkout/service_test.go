package checkout

import (
	"context"
	"errors"
	"testing"

	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memFlows 内存版 Flows,省掉测试里的 Redis
type memFlows struct {
	flows  map[string]Flow
	guards map[string]bool
}

func newMemFlows() *memFlows {
	return &memFlows{flows: map[string]Flow{}, guards: map[string]bool{}}
}

func (m *memFlows) Save(_ context.Context, sid string, f *Flow) error {
	m.flows[sid] = *f
	return nil
}

func (m *memFlows) Load(_ context.Context, sid string) (*Flow, error) {
	f, ok := m.flows[sid]
	if !ok {
		return nil, ErrNoFlow
	}
	cp := f
	return &cp, nil
}

func (m *memFlows) Delete(_ context.Context, sid string) error {
	delete(m.flows, sid)
	return nil
}

func (m *memFlows) AcquireSubmit(_ context.Context, sid string) (bool, error) {
	if m.guards[sid] {
		return false, nil
	}
	m.guards[sid] = true
	return true, nil
}

func (m *memFlows) ReleaseSubmit(_ context.Context, sid string) error {
	delete(m.guards, sid)
	return nil
}

type mockItems struct{ mock.Mock }

func (m *mockItems) FindWheelchairBySerial(ctx context.Context, serial string) (*models.Wheelchair, error) {
	args := m.Called(ctx, serial)
	if w := args.Get(0); w != nil {
		return w.(*models.Wheelchair), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItems) ApplyCheckoutAction(ctx context.Context, serial string, u db.CheckoutUpdate) error {
	args := m.Called(ctx, serial, u)
	return args.Error(0)
}

type mockLogs struct{ mock.Mock }

func (m *mockLogs) AppendTransaction(ctx context.Context, rec *models.TransactionLog) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

const sid = "sess-1"

func setup(t *testing.T) (*Service, *memFlows, *mockItems, *mockLogs) {
	t.Helper()
	flows := newMemFlows()
	items := &mockItems{}
	logs := &mockLogs{}
	return NewService(flows, items, logs), flows, items, logs
}

// 完整走一遍:选楼层、选动作、输序列号提交
func TestSubmitCheckOut(t *testing.T) {
	svc, flows, items, logs := setup(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, sid, "")
	require.NoError(t, err)
	_, err = svc.ChooseFloor(ctx, sid, "2")
	require.NoError(t, err)
	_, err = svc.ChooseAction(ctx, sid, models.ActionCheckOut)
	require.NoError(t, err)

	items.On("FindWheelchairBySerial", mock.Anything, "SN100").
		Return(&models.Wheelchair{Serial: "SN100", Name: "ChairModelX"}, nil)
	items.On("ApplyCheckoutAction", mock.Anything, "SN100",
		mock.MatchedBy(func(u db.CheckoutUpdate) bool {
			return u.Floor == "2" && !u.CheckIn && u.UserEmail == "nurse@hospital.org"
		})).Return(nil)
	logs.On("AppendTransaction", mock.Anything, mock.Anything).Return(nil)

	rec, err := svc.Submit(ctx, sid, " SN100 ", "nurse@hospital.org")
	require.NoError(t, err)
	assert.Equal(t, "SN100", rec.ItemSerialNumber)
	assert.Equal(t, "ChairModelX", rec.ItemName)
	assert.Equal(t, models.ActionCheckOut, rec.ActionType)
	assert.Equal(t, "2", rec.Floor)
	assert.Equal(t, "nurse@hospital.org", rec.UserEmail)

	items.AssertExpectations(t)
	logs.AssertNumberOfCalls(t, "AppendTransaction", 1)

	// 成功后状态清掉,再查是 idle
	_, err = svc.Current(ctx, sid)
	assert.ErrorIs(t, err, ErrNoFlow)
	assert.Empty(t, flows.guards[sid])
}

func TestSubmitUnknownSerial(t *testing.T) {
	svc, _, items, logs := setup(t)
	ctx := context.Background()

	_, _ = svc.Start(ctx, sid, "")
	_, _ = svc.ChooseFloor(ctx, sid, "1")
	_, _ = svc.ChooseAction(ctx, sid, models.ActionCheckIn)

	items.On("FindWheelchairBySerial", mock.Anything, "NOPE").
		Return(nil, db.ErrWheelchairNotFound)

	_, err := svc.Submit(ctx, sid, "NOPE", "nurse@hospital.org")
	assert.ErrorIs(t, err, ErrNoMatch)

	// 没有库存更新,也没有流水;流程留在输序列号那一步等重试
	items.AssertNotCalled(t, "ApplyCheckoutAction", mock.Anything, mock.Anything, mock.Anything)
	logs.AssertNotCalled(t, "AppendTransaction", mock.Anything, mock.Anything)

	f, err := svc.Current(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, StepEnterSerial, f.Step)
}

func TestSubmitBlankName(t *testing.T) {
	svc, _, items, logs := setup(t)
	ctx := context.Background()

	_, _ = svc.Start(ctx, sid, "")
	_, _ = svc.ChooseFloor(ctx, sid, "3")
	_, _ = svc.ChooseAction(ctx, sid, models.ActionCheckIn)

	items.On("FindWheelchairBySerial", mock.Anything, "SN9").
		Return(&models.Wheelchair{Serial: "SN9", Name: "  "}, nil)

	_, err := svc.Submit(ctx, sid, "SN9", "nurse@hospital.org")
	assert.ErrorIs(t, err, ErrNoName)
	items.AssertNotCalled(t, "ApplyCheckoutAction", mock.Anything, mock.Anything, mock.Anything)
	logs.AssertNotCalled(t, "AppendTransaction", mock.Anything, mock.Anything)
}

// 双击确认:闸已被占时第二次提交是 no-op
func TestSubmitGuardInFlight(t *testing.T) {
	svc, flows, items, logs := setup(t)
	ctx := context.Background()

	_, _ = svc.Start(ctx, sid, "")
	_, _ = svc.ChooseFloor(ctx, sid, "2")
	_, _ = svc.ChooseAction(ctx, sid, models.ActionCheckOut)

	ok, err := flows.AcquireSubmit(ctx, sid)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Submit(ctx, sid, "SN100", "nurse@hospital.org")
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	items.AssertNotCalled(t, "FindWheelchairBySerial", mock.Anything, mock.Anything)
	logs.AssertNotCalled(t, "AppendTransaction", mock.Anything, mock.Anything)
}

func TestSubmitEmptySerial(t *testing.T) {
	svc, _, items, _ := setup(t)
	ctx := context.Background()

	_, _ = svc.Start(ctx, sid, "")
	_, _ = svc.ChooseFloor(ctx, sid, "2")
	_, _ = svc.ChooseAction(ctx, sid, models.ActionCheckOut)

	_, err := svc.Submit(ctx, sid, "   ", "nurse@hospital.org")
	assert.ErrorIs(t, err, ErrEmptySerial)
	items.AssertNotCalled(t, "FindWheelchairBySerial", mock.Anything, mock.Anything)
}

// 流水写失败不回滚库存,提交仍算成功
func TestSubmitLogFailureDoesNotRollback(t *testing.T) {
	svc, _, items, logs := setup(t)
	ctx := context.Background()

	_, _ = svc.Start(ctx, sid, "")
	_, _ = svc.ChooseFloor(ctx, sid, "4")
	_, _ = svc.ChooseAction(ctx, sid, models.ActionCheckIn)

	items.On("FindWheelchairBySerial", mock.Anything, "SN7").
		Return(&models.Wheelchair{Serial: "SN7", Name: "Transporter"}, nil)
	items.On("ApplyCheckoutAction", mock.Anything, "SN7", mock.Anything).Return(nil)
	logs.On("AppendTransaction", mock.Anything, mock.Anything).Return(errors.New("db down"))

	rec, err := svc.Submit(ctx, sid, "SN7", "nurse@hospital.org")
	require.NoError(t, err)
	assert.Equal(t, "SN7", rec.ItemSerialNumber)

	_, err = svc.Current(ctx, sid)
	assert.ErrorIs(t, err, ErrNoFlow)
}

func TestStepOrderEnforced(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	// 没有流程时任何一步都报 ErrNoFlow
	_, err := svc.ChooseFloor(ctx, sid, "1")
	assert.ErrorIs(t, err, ErrNoFlow)

	_, _ = svc.Start(ctx, sid, "")

	// 还没选楼层就选动作
	_, err = svc.ChooseAction(ctx, sid, models.ActionCheckIn)
	assert.ErrorIs(t, err, ErrWrongStep)

	// 还没选完就提交
	_, err = svc.Submit(ctx, sid, "SN100", "nurse@hospital.org")
	assert.ErrorIs(t, err, ErrWrongStep)

	// 非法楼层 / 非法动作
	_, err = svc.ChooseFloor(ctx, sid, "12")
	assert.ErrorIs(t, err, ErrBadFloor)
	_, _ = svc.ChooseFloor(ctx, sid, "1")
	_, err = svc.ChooseAction(ctx, sid, "borrow")
	assert.ErrorIs(t, err, ErrBadAction)
}

func TestStartPrefillAndCancel(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	f, err := svc.Start(ctx, sid, "  SN42 ")
	require.NoError(t, err)
	assert.Equal(t, StepSelectFloor, f.Step)
	assert.Equal(t, "SN42", f.Serial)

	require.NoError(t, svc.Cancel(ctx, sid))
	_, err = svc.Current(ctx, sid)
	assert.ErrorIs(t, err, ErrNoFlow)
}
