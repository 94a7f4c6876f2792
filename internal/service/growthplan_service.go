package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/internal/dimension"
	"github.com/Faith-Promise-Church/growth-plan/internal/dto"
	"github.com/Faith-Promise-Church/growth-plan/internal/model"
	"github.com/Faith-Promise-Church/growth-plan/internal/repository"
	"github.com/Faith-Promise-Church/growth-plan/pkg/validation"
)

var (
	ErrPlanNotFound = errors.New("no growth plan exists for this year")
	ErrEmptyGoal    = errors.New("goal name cannot be empty")
)

// GrowthPlanService 年度成长计划
type GrowthPlanService struct {
	plans       repository.GrowthPlanRepository
	goals       repository.GoalRepository
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewGrowthPlanService 创建成长计划服务
func NewGrowthPlanService(repos *repository.Repositories, callTimeout time.Duration, logger *zap.Logger) *GrowthPlanService {
	return &GrowthPlanService{
		plans:       repos.GrowthPlan,
		goals:       repos.Goal,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Exists 用户某年度是否已有计划
func (s *GrowthPlanService) Exists(ctx context.Context, userID string, year int) (bool, error) {
	sctx, cancel := storeCtx(ctx, s.callTimeout)
	defer cancel()

	_, err := s.plans.GetByUserYear(sctx, userID, year)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Years 用户已有计划的年度列表（倒序）
func (s *GrowthPlanService) Years(ctx context.Context, userID string) ([]int, error) {
	sctx, cancel := storeCtx(ctx, s.callTimeout)
	defer cancel()
	return s.plans.Years(sctx, userID)
}

// Get 某年度计划全量视图，维度按固定顺序、目标按 sort_order 排列
func (s *GrowthPlanService) Get(ctx context.Context, userID string, year int) (*dto.GrowthPlanResponse, error) {
	sctx, cancel := storeCtx(ctx, s.callTimeout)
	defer cancel()

	plan, err := s.plans.GetByUserYear(sctx, userID, year)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	goals, err := s.goals.ListByPlan(sctx, plan.ID)
	if err != nil {
		return nil, err
	}

	return buildPlanResponse(plan, goals), nil
}

// buildPlanResponse 将目标按维度分组为固定顺序的视图
func buildPlanResponse(plan *model.GrowthPlan, goals []model.Goal) *dto.GrowthPlanResponse {
	byDim := make(map[dimension.Key][]dto.GoalView, dimension.Count)
	for i := range goals {
		g := &goals[i]
		byDim[g.Dimension] = append(byDim[g.Dimension], dto.GoalView{
			ID:          g.ID,
			GoalName:    g.GoalName,
			GoalText:    g.GoalText,
			Discipline:  g.Discipline,
			IsMandatory: g.IsMandatory,
			SortOrder:   g.SortOrder,
		})
	}

	dims := make([]dto.DimensionGoals, 0, dimension.Count)
	for _, d := range dimension.All() {
		dims = append(dims, dto.DimensionGoals{
			Dimension: d.Key,
			Name:      d.Name,
			Color:     d.Color,
			Goals:     byDim[d.Key],
		})
	}
	return &dto.GrowthPlanResponse{ID: plan.ID, Year: plan.Year, Dimensions: dims}
}

// SavedGoalsForDimension 某维度已持久化的目标（用于向导回填）
func (s *GrowthPlanService) SavedGoalsForDimension(ctx context.Context, userID string, year int, key dimension.Key) ([]model.Goal, error) {
	sctx, cancel := storeCtx(ctx, s.callTimeout)
	defer cancel()

	plan, err := s.plans.GetByUserYear(sctx, userID, year)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.goals.ListByPlanDimension(sctx, plan.ID, key)
}

// SaveDimensionGoals 整体替换某维度的目标列表
// 计划行惰性建立；sort_order 取提交顺序
func (s *GrowthPlanService) SaveDimensionGoals(ctx context.Context, userID string, year int, key dimension.Key, inputs []dto.GoalInput) error {
	if !dimension.IsValid(key) {
		return ErrUnknownDimension
	}

	goals := make([]model.Goal, 0, len(inputs))
	for _, in := range inputs {
		name := validation.NormalizeText(in.GoalName)
		if name == "" {
			return ErrEmptyGoal
		}
		goals = append(goals, model.Goal{
			GoalName:    name,
			GoalText:    validation.NormalizeText(in.GoalText),
			Discipline:  validation.NormalizeText(in.Discipline),
			IsMandatory: in.IsMandatory,
		})
	}

	sctx, cancel := storeCtx(ctx, s.callTimeout)
	defer cancel()

	plan, err := s.plans.GetOrCreate(sctx, userID, year)
	if err != nil {
		return err
	}

	if err := s.goals.ReplaceForDimension(sctx, plan.ID, key, goals); err != nil {
		return err
	}

	s.logger.Info("维度目标已保存",
		zap.String("user_id", userID),
		zap.Int("year", year),
		zap.String("dimension", string(key)),
		zap.Int("count", len(goals)),
	)
	return nil
}

// [自证通过] internal/service/growthplan_service.go
