package db

import (
	"Gin_postgres_redis_equipment_tracker/models"
	"context"
	"fmt"
	"time"
)

// AppendTransaction 写一条借还流水。Timestamp 交给数据库默认值,
// 写到哪条算哪条——排序以落库顺序为准,不以客户端事件顺序为准。
func (r *Repo) AppendTransaction(ctx context.Context, rec *models.TransactionLog) error {
	if err := r.DB.WithContext(ctx).Omit("timestamp").Create(rec).Error; err != nil {
		return fmt.Errorf("insert transaction log: %w", err)
	}
	return nil
}

// ListTransactions 按时间段(闭区间)拉流水,新的在前。
// 关键词过滤在内存里做,这里只负责范围查询。
func (r *Repo) ListTransactions(ctx context.Context, from, to time.Time) ([]models.TransactionLog, error) {
	var logs []models.TransactionLog
	err := r.DB.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", from, to).
		Order("timestamp DESC").
		Find(&logs).Error
	return logs, err
}
