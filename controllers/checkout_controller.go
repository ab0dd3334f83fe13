// controllers/checkout_controller.go
package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/checkout"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct{ *Srv }

func NewCheckoutController(s *Srv) *CheckoutController { return &CheckoutController{Srv: s} }

func sessionID(c *gin.Context) string {
	v, _ := c.Get("sessionID")
	sid, _ := v.(string)
	return sid
}

func userEmail(c *gin.Context) string {
	v, _ := c.Get("userEmail")
	email, _ := v.(string)
	return email
}

// POST /api/checkout/start — 可带 serial 预填("Interact" 快捷入口)
func (cc *CheckoutController) Start(c *gin.Context) {
	var in struct {
		Serial string `json:"serial"`
	}
	_ = c.ShouldBindJSON(&in)

	f, err := cc.Checkout.Start(c.Request.Context(), sessionID(c), in.Serial)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, f)
}

// GET /api/checkout — 当前流程状态(恢复弹窗用)
func (cc *CheckoutController) Current(c *gin.Context) {
	f, err := cc.Checkout.Current(c.Request.Context(), sessionID(c))
	if err != nil {
		if errors.Is(err, checkout.ErrNoFlow) {
			c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, f)
}

// DELETE /api/checkout — 关弹窗,丢状态
func (cc *CheckoutController) Cancel(c *gin.Context) {
	if err := cc.Checkout.Cancel(c.Request.Context(), sessionID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/checkout/floor
func (cc *CheckoutController) ChooseFloor(c *gin.Context) {
	var in struct {
		Floor string `json:"floor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	f, err := cc.Checkout.ChooseFloor(c.Request.Context(), sessionID(c), in.Floor)
	if err != nil {
		cc.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// POST /api/checkout/action
func (cc *CheckoutController) ChooseAction(c *gin.Context) {
	var in struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	f, err := cc.Checkout.ChooseAction(c.Request.Context(), sessionID(c), in.Action)
	if err != nil {
		cc.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// POST /api/checkout/confirm
func (cc *CheckoutController) Confirm(c *gin.Context) {
	var in struct {
		Serial string `json:"serial"`
	}
	_ = c.ShouldBindJSON(&in)

	rec, err := cc.Checkout.Submit(c.Request.Context(), sessionID(c), in.Serial, userEmail(c))
	if err != nil {
		cc.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "transaction": rec})
}

// 错误到状态码的映射集中在一处,文案原样透出
func (cc *CheckoutController) respondFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrNoFlow):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrWrongStep),
		errors.Is(err, checkout.ErrBadFloor),
		errors.Is(err, checkout.ErrBadAction),
		errors.Is(err, checkout.ErrEmptySerial):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrNoMatch), errors.Is(err, checkout.ErrNoName):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}
