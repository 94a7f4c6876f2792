package model

import "time"

// BaseModel 公共审计字段
// 所有业务表统一携带创建与更新时间
type BaseModel struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
