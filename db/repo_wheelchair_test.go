package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 用内存 SQLite 跑仓储层,语句保持和 Postgres 兼容
func testRepo(t *testing.T) *Repo {
	t.Helper()
	dsn := fmt.Sprintf("file:wct_test_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	return NewRepo(conn)
}

func TestCreateAndFindWheelchair(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	w := &models.Wheelchair{Serial: "SN100", Name: "ChairModelX", Category: "Standard"}
	require.NoError(t, r.CreateWheelchair(ctx, w))

	got, err := r.FindWheelchairBySerial(ctx, "SN100")
	require.NoError(t, err)
	assert.Equal(t, "ChairModelX", got.Name)
	assert.Equal(t, "Standard", got.Category)
	// 新录入的默认在库,还没有楼层和借还时间
	assert.True(t, got.CheckedIn)
	assert.Nil(t, got.Floor)
	assert.Nil(t, got.LastCheckInTime)
	assert.Nil(t, got.LastCheckOutTime)

	_, err = r.FindWheelchairBySerial(ctx, "missing")
	assert.ErrorIs(t, err, ErrWheelchairNotFound)
}

// 同序列号重复创建:整条覆盖,连在库状态和楼层一起打回默认值
func TestCreateWheelchairOverwrites(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateWheelchair(ctx, &models.Wheelchair{
		Serial: "SN100", Name: "ChairModelX", Category: "Standard",
	}))
	require.NoError(t, r.ApplyCheckoutAction(ctx, "SN100", CheckoutUpdate{
		Floor: "2", CheckIn: false, UserEmail: "nurse@hospital.org", At: time.Now().UTC(),
	}))

	require.NoError(t, r.CreateWheelchair(ctx, &models.Wheelchair{
		Serial: "SN100", Name: "Renamed", Category: "Bariatric",
	}))

	got, err := r.FindWheelchairBySerial(ctx, "SN100")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "Bariatric", got.Category)
	assert.True(t, got.CheckedIn)
	assert.Nil(t, got.Floor)
	assert.Empty(t, got.PersonLastInteracted)
	assert.Nil(t, got.LastCheckOutTime)
}

func TestApplyCheckoutAction(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateWheelchair(ctx, &models.Wheelchair{
		Serial: "SN100", Name: "ChairModelX", Category: "Standard",
	}))

	out := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, r.ApplyCheckoutAction(ctx, "SN100", CheckoutUpdate{
		Floor: "2", CheckIn: false, UserEmail: "nurse@hospital.org", At: out,
	}))

	got, err := r.FindWheelchairBySerial(ctx, "SN100")
	require.NoError(t, err)
	assert.False(t, got.CheckedIn)
	require.NotNil(t, got.Floor)
	assert.Equal(t, "2", *got.Floor)
	assert.Equal(t, "nurse@hospital.org", got.PersonLastInteracted)
	require.NotNil(t, got.LastCheckOutTime)
	assert.Nil(t, got.LastCheckInTime)

	// 签入只刷新签入时间,上次签出时间保留
	in := out.Add(2 * time.Hour)
	require.NoError(t, r.ApplyCheckoutAction(ctx, "SN100", CheckoutUpdate{
		Floor: "3", CheckIn: true, UserEmail: "aide@hospital.org", At: in,
	}))

	got, err = r.FindWheelchairBySerial(ctx, "SN100")
	require.NoError(t, err)
	assert.True(t, got.CheckedIn)
	assert.Equal(t, "3", *got.Floor)
	assert.Equal(t, "aide@hospital.org", got.PersonLastInteracted)
	require.NotNil(t, got.LastCheckInTime)
	require.NotNil(t, got.LastCheckOutTime)

	err = r.ApplyCheckoutAction(ctx, "missing", CheckoutUpdate{Floor: "1", CheckIn: true, At: in})
	assert.ErrorIs(t, err, ErrWheelchairNotFound)
}

func TestUpdateWheelchairDetails(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateWheelchair(ctx, &models.Wheelchair{
		Serial: "SN100", Name: "ChairModelX", Category: "Standard",
	}))
	out := time.Now().UTC()
	require.NoError(t, r.ApplyCheckoutAction(ctx, "SN100", CheckoutUpdate{
		Floor: "2", CheckIn: false, UserEmail: "nurse@hospital.org", At: out,
	}))

	require.NoError(t, r.UpdateWheelchairDetails(ctx, "SN100", "Renamed", "Bariatric"))

	got, err := r.FindWheelchairBySerial(ctx, "SN100")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "Bariatric", got.Category)
	// 编辑表单不碰在库状态
	assert.False(t, got.CheckedIn)
	assert.Equal(t, "2", *got.Floor)

	err = r.UpdateWheelchairDetails(ctx, "missing", "x", "y")
	assert.ErrorIs(t, err, ErrWheelchairNotFound)
}

func TestDeleteWheelchair(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateWheelchair(ctx, &models.Wheelchair{
		Serial: "SN100", Name: "ChairModelX", Category: "Standard",
	}))

	require.NoError(t, r.DeleteWheelchair(ctx, "SN100"))
	_, err := r.FindWheelchairBySerial(ctx, "SN100")
	assert.ErrorIs(t, err, ErrWheelchairNotFound)

	// 删过的再删一次不是静默成功
	assert.ErrorIs(t, r.DeleteWheelchair(ctx, "SN100"), ErrWheelchairNotFound)
}

func TestListTransactionsRange(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2026, 8, d, 12, 0, 0, 0, time.UTC) }
	for i, d := range []int{1, 5, 10, 20} {
		require.NoError(t, r.DB.Create(&models.TransactionLog{
			ItemSerialNumber: "SN100",
			ItemName:         "ChairModelX",
			UserEmail:        "nurse@hospital.org",
			ActionType:       models.ActionCheckOut,
			Floor:            "2",
			Timestamp:        day(d),
		}).Error, "row %d", i)
	}

	// 闭区间:两端的记录都要包含
	logs, err := r.ListTransactions(ctx, day(5), day(10))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// 新的在前
	assert.Equal(t, day(10), logs[0].Timestamp.UTC())
	assert.Equal(t, day(5), logs[1].Timestamp.UTC())

	logs, err = r.ListTransactions(ctx, day(21), day(25))
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAppendTransactionAssignsTimestamp(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	rec := &models.TransactionLog{
		ItemSerialNumber: "SN100",
		ItemName:         "ChairModelX",
		UserEmail:        "nurse@hospital.org",
		ActionType:       models.ActionCheckIn,
		Floor:            "1",
	}
	require.NoError(t, r.AppendTransaction(ctx, rec))

	var got models.TransactionLog
	require.NoError(t, r.DB.First(&got, rec.ID).Error)
	// 写入时间由数据库赋值
	assert.False(t, got.Timestamp.IsZero())
}
