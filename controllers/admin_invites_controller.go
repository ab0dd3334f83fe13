package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"net/smtp"
	"os"
	"time"

	"Gin_postgres_redis_equipment_tracker/app"

	"github.com/gin-gonic/gin"
)

type InviteController struct {
	*Srv
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func GetInviteController(s *Srv) *InviteController {
	return &InviteController{
		Srv:      s,
		smtpHost: os.Getenv("SMTP_HOST"),
		smtpPort: os.Getenv("SMTP_PORT"),
		smtpUser: os.Getenv("SMTP_USER"),
		smtpPass: os.Getenv("SMTP_PASS"),
	}
}

// POST /api/admin/invites — 生成注册邀请,有邮件配置就发,没有就只回链接
func (ic *InviteController) CreateInvite(c *gin.Context) {
	var in struct {
		Email   string `json:"email" binding:"required,email"`
		Expires int    `json:"expiresDays"` // 默认 1 天
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Expires <= 0 {
		in.Expires = 1
	}

	buf := make([]byte, 16)
	rand.Read(buf)
	token := hex.EncodeToString(buf)

	createdBy := userEmail(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	inv, err := ic.Repo.CreateInvite(ctx, in.Email, token, time.Now().AddDate(0, 0, in.Expires), createdBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	link := ic.WebOrigin + "/login?inviteToken=" + token
	if ic.smtpHost != "" {
		subject := "Subject: Wheelchair tracker invitation\r\n"
		message := []byte(subject + "\r\n" + link)
		auth := smtp.PlainAuth("", ic.smtpUser, ic.smtpPass, ic.smtpHost)
		if err := smtp.SendMail(ic.smtpHost+":"+ic.smtpPort, auth, ic.smtpUser, []string{in.Email}, message); err != nil {
			log.Println("send invite mail:", err)
		}
	} else {
		// 本地开发没配 SMTP,把链接打到日志里
		log.Println("invite link:", link)
	}

	c.JSON(http.StatusCreated, app.H{
		"token":  token,
		"link":   link,
		"invite": inv,
	})
}
