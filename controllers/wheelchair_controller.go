// controllers/wheelchair_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/models"
	"Gin_postgres_redis_equipment_tracker/pagelist"

	"github.com/gin-gonic/gin"
)

type WheelchairController struct{ *Srv }

func NewWheelchairController(s *Srv) *WheelchairController { return &WheelchairController{Srv: s} }

// 列表检索匹配这几个字段,和流水检索分开配置
var wheelchairSearchFields = []func(models.Wheelchair) string{
	func(w models.Wheelchair) string { return w.Serial },
	func(w models.Wheelchair) string { return w.Name },
	func(w models.Wheelchair) string { return w.Category },
}

// GET /api/wheelchairs?q=&page=&size=
func (wc *WheelchairController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	page, size = pagelist.Clamp(page, size)

	all, err := wc.Repo.ListWheelchairs(c.Request.Context())
	if err != nil {
		// 拉不到就是空列表 + 错误提示,页面不崩
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "items": []models.Wheelchair{}})
		return
	}

	filtered := pagelist.Filter(all, c.Query("q"), wheelchairSearchFields)
	totalPages := pagelist.TotalPages(len(filtered), size)

	c.JSON(http.StatusOK, app.H{
		"items":      pagelist.Page(filtered, page, size),
		"total":      len(filtered),
		"page":       page,
		"pageSize":   size,
		"totalPages": totalPages,
		"pages":      pagelist.PageNumbers(page, totalPages),
	})
}
