// controllers/admin_wheelchair_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/gin-gonic/gin"
)

type AdminWheelchairController struct{ *Srv }

func NewAdminWheelchairController(s *Srv) *AdminWheelchairController {
	return &AdminWheelchairController{Srv: s}
}

// GET /api/admin/wheelchairs/:serial — 编辑前先拉原值;查不到不开表单
func (ac *AdminWheelchairController) Get(c *gin.Context) {
	w, err := ac.Repo.FindWheelchairBySerial(c.Request.Context(), c.Param("serial"))
	if err != nil {
		if errors.Is(err, db.ErrWheelchairNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "wheelchair not found in database"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}

// POST /api/admin/wheelchairs — 三个字段都必填;序列号即主键,
// 同号重复创建会整条覆盖(沿用源系统语义,没有唯一性检查)
func (ac *AdminWheelchairController) Create(c *gin.Context) {
	var in struct {
		SerialNumber string `json:"serialNumber" binding:"required"`
		Name         string `json:"name" binding:"required"`
		Category     string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	serial := strings.TrimSpace(in.SerialNumber)
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if serial == "" || name == "" || category == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "serialNumber, name and category are required"})
		return
	}

	w := &models.Wheelchair{Serial: serial, Name: name, Category: category}
	if err := ac.Repo.CreateWheelchair(c.Request.Context(), w); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, w)
}

// PUT /api/admin/wheelchairs/:serial — 只覆盖名称和类别,last writer wins
func (ac *AdminWheelchairController) Update(c *gin.Context) {
	var in struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	err := ac.Repo.UpdateWheelchairDetails(c.Request.Context(), c.Param("serial"), in.Name, in.Category)
	if err != nil {
		if errors.Is(err, db.ErrWheelchairNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "wheelchair not found in database"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/admin/wheelchairs/:serial — 二次确认在前端;
// 已删过的再删一次报 404,不静默成功。流水永远不跟着删。
func (ac *AdminWheelchairController) Delete(c *gin.Context) {
	err := ac.Repo.DeleteWheelchair(c.Request.Context(), c.Param("serial"))
	if err != nil {
		if errors.Is(err, db.ErrWheelchairNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "wheelchair not found in database"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
