package db

import (
	"Gin_postgres_redis_equipment_tracker/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.Invite{},
		&models.Wheelchair{},
		&models.TransactionLog{},
	); err != nil {
		return err
	}

	// 管理后台按时间段拉流水,再按类型过滤
	return db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_timestamp_desc
	  ON %s (timestamp DESC);
	`, models.TransactionLogTable, models.TransactionLogTable)).Error
}
