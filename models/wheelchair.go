// models/wheelchair.go
package models

import "time"

const WheelchairTable = "wct_wheelchairs"
const TransactionLogTable = "wct_transaction_logs"

// 自定义动作只有两种,和流水里的 action_type 保持一致
const (
	ActionCheckIn  = "checkIn"
	ActionCheckOut = "checkOut"
)

// Floors 病区楼层是固定集合,不做成配置
var Floors = []string{"1", "2", "3", "4"}

func ValidFloor(f string) bool {
	for _, v := range Floors {
		if v == f {
			return true
		}
	}
	return false
}

func ValidAction(a string) bool { return a == ActionCheckIn || a == ActionCheckOut }

// Wheelchair 以序列号作主键,由录入人提供,创建后不再变化。
// Floor 在第一次借还动作之前为空;CheckedIn 默认在库。
// PersonLastInteracted 只用于展示"上次经手人",签入后不清空。
type Wheelchair struct {
	Serial   string `gorm:"primaryKey;size:120" json:"serialNumber"`
	Name     string `gorm:"size:200;not null" json:"name"`
	Category string `gorm:"size:120;not null" json:"category"`

	Floor                *string    `gorm:"size:8" json:"floor"`
	CheckedIn            bool       `gorm:"not null;default:true" json:"checkedIn"`
	PersonLastInteracted string     `gorm:"size:255" json:"personLastInteracted,omitempty"`
	LastCheckInTime      *time.Time `json:"lastCheckInTime,omitempty"`
	LastCheckOutTime     *time.Time `json:"lastCheckOutTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TransactionLog 借还流水,只追加;删除轮椅不会动已有流水。
// Timestamp 由数据库在写入时赋值,避免客户端时钟偏差影响排序。
type TransactionLog struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ItemSerialNumber string    `gorm:"size:120;index;not null" json:"itemSerialNumber"`
	ItemName         string    `gorm:"size:200" json:"itemName"`
	UserEmail        string    `gorm:"size:255;index" json:"userEmail"`
	ActionType       string    `gorm:"size:16;not null" json:"actionType"`
	Floor            string    `gorm:"size:8" json:"floor"`
	Timestamp        time.Time `gorm:"index;not null;default:CURRENT_TIMESTAMP" json:"timestamp"`
}

func (Wheelchair) TableName() string     { return WheelchairTable }
func (TransactionLog) TableName() string { return TransactionLogTable }
