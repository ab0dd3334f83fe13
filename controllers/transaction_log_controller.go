// controllers/transaction_log_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/models"
	"Gin_postgres_redis_equipment_tracker/pagelist"

	"github.com/gin-gonic/gin"
)

type TransactionLogController struct{ *Srv }

func NewTransactionLogController(s *Srv) *TransactionLogController {
	return &TransactionLogController{Srv: s}
}

// 流水检索的目标字段随类型切换:
// item 匹配序列号/名称,user 匹配经手人邮箱
var itemHistoryFields = []func(models.TransactionLog) string{
	func(t models.TransactionLog) string { return t.ItemSerialNumber },
	func(t models.TransactionLog) string { return t.ItemName },
}

var userHistoryFields = []func(models.TransactionLog) string{
	func(t models.TransactionLog) string { return t.UserEmail },
}

// parseDay 接受 RFC3339 或 2006-01-02;纯日期按当天零点算
func parseDay(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", v)
	return t, true, err
}

// GET /api/admin/transactions?type=item|user&q=&from=&to=&page=&size=
func (tc *TransactionLogController) List(c *gin.Context) {
	// 默认时间窗:最近一个月到现在
	now := time.Now()
	from, to := now.AddDate(0, -1, 0), now

	if v := c.Query("from"); v != "" {
		t, _, err := parseDay(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "invalid from date"})
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, dayOnly, err := parseDay(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "invalid to date"})
			return
		}
		// 区间是闭的:纯日期要把当天整天包进来
		if dayOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = t
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	page, size = pagelist.Clamp(page, size)

	// 时间窗在库里过滤,关键词在内存里过滤
	logs, err := tc.Repo.ListTransactions(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "transactions": []models.TransactionLog{}})
		return
	}

	fields := itemHistoryFields
	if c.DefaultQuery("type", "item") == "user" {
		fields = userHistoryFields
	}
	filtered := pagelist.Filter(logs, c.Query("q"), fields)
	totalPages := pagelist.TotalPages(len(filtered), size)

	c.JSON(http.StatusOK, app.H{
		"transactions": pagelist.Page(filtered, page, size),
		"total":        len(filtered),
		"page":         page,
		"pageSize":     size,
		"totalPages":   totalPages,
		"pages":        pagelist.PageNumbers(page, totalPages),
	})
}
