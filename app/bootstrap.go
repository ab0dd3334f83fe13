// app/bootstrap.go
package app

import (
	"context"
	"log"

	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/models"

	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstAdmin 空库启动时用环境变量里的账号建第一个管理员。
// 已经有管理员就什么都不做。
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Printf("bootstrap: count admins: %v", err)
		return
	}
	if n > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("bootstrap: hash password: %v", err)
		return
	}
	u := &models.User{
		ID:           NewUserID(),
		Email:        cfg.BootstrapEmail,
		DisplayName:  cfg.BootstrapEmail,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap: create admin: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] created first admin %s", cfg.BootstrapEmail)
}
