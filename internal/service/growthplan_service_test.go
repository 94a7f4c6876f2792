package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/internal/dimension"
	"github.com/Faith-Promise-Church/growth-plan/internal/dto"
	"github.com/Faith-Promise-Church/growth-plan/internal/repository"
)

func testPlanService() (*GrowthPlanService, *mockPlanRepo, *mockGoalRepo) {
	plans := newMockPlanRepo()
	goals := newMockGoalRepo()
	repos := &repository.Repositories{GrowthPlan: plans, Goal: goals}
	return NewGrowthPlanService(repos, 10*time.Second, zap.NewNop()), plans, goals
}

func TestGetPlanNotFound(t *testing.T) {
	svc, _, _ := testPlanService()
	if _, err := svc.Get(context.Background(), "user-1", 2026); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("无计划年度期望 ErrPlanNotFound，实际=%v", err)
	}
}

func TestSaveDimensionGoalsCreatesPlanLazily(t *testing.T) {
	svc, plans, _ := testPlanService()
	ctx := context.Background()

	err := svc.SaveDimensionGoals(ctx, "user-1", 2026, dimension.Faith, []dto.GoalInput{
		{GoalName: "Scripture Reading", IsMandatory: true},
		{GoalName: "Fasting", GoalText: "One day per month"},
	})
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	if _, err := plans.GetByUserYear(ctx, "user-1", 2026); err != nil {
		t.Error("保存目标时应惰性建立计划行")
	}

	plan, err := svc.Get(ctx, "user-1", 2026)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Year != 2026 {
		t.Errorf("期望年度 2026，实际=%d", plan.Year)
	}
	if len(plan.Dimensions) != dimension.Count {
		t.Fatalf("计划视图应包含全部 %d 个维度，实际=%d", dimension.Count, len(plan.Dimensions))
	}

	faith := plan.Dimensions[0]
	if faith.Dimension != dimension.Faith || len(faith.Goals) != 2 {
		t.Fatalf("faith 维度目标不符: %+v", faith)
	}
	if faith.Goals[0].SortOrder != 0 || faith.Goals[1].SortOrder != 1 {
		t.Error("sort_order 应取提交顺序")
	}
}

func TestSaveDimensionGoalsReplacesExisting(t *testing.T) {
	svc, _, _ := testPlanService()
	ctx := context.Background()

	if err := svc.SaveDimensionGoals(ctx, "user-1", 2026, dimension.Health, []dto.GoalInput{
		{GoalName: "Sleep", IsMandatory: true},
		{GoalName: "Exercise", IsMandatory: true},
	}); err != nil {
		t.Fatal(err)
	}

	// 整体替换：第二次保存完全覆盖第一次
	if err := svc.SaveDimensionGoals(ctx, "user-1", 2026, dimension.Health, []dto.GoalInput{
		{GoalName: "Nutrition", IsMandatory: true},
	}); err != nil {
		t.Fatal(err)
	}

	saved, err := svc.SavedGoalsForDimension(ctx, "user-1", 2026, dimension.Health)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 || saved[0].GoalName != "Nutrition" {
		t.Errorf("替换后应只剩 Nutrition，实际=%+v", saved)
	}
}

func TestSaveDimensionGoalsValidation(t *testing.T) {
	svc, _, _ := testPlanService()
	ctx := context.Background()

	err := svc.SaveDimensionGoals(ctx, "user-1", 2026, "wealth", nil)
	if !errors.Is(err, ErrUnknownDimension) {
		t.Errorf("未知维度期望 ErrUnknownDimension，实际=%v", err)
	}

	err = svc.SaveDimensionGoals(ctx, "user-1", 2026, dimension.Faith, []dto.GoalInput{{GoalName: "   "}})
	if !errors.Is(err, ErrEmptyGoal) {
		t.Errorf("空目标名期望 ErrEmptyGoal，实际=%v", err)
	}
}

func TestSavedGoalsForDimensionWithoutPlan(t *testing.T) {
	svc, _, _ := testPlanService()
	saved, err := svc.SavedGoalsForDimension(context.Background(), "user-1", 2026, dimension.Faith)
	if err != nil {
		t.Fatalf("无计划时不应报错: %v", err)
	}
	if saved != nil {
		t.Errorf("无计划时应返回空列表，实际=%+v", saved)
	}
}

func TestExistsAndYears(t *testing.T) {
	svc, _, _ := testPlanService()
	ctx := context.Background()

	ok, err := svc.Exists(ctx, "user-1", 2026)
	if err != nil || ok {
		t.Errorf("未建计划时 Exists 应为 false，实际=%v err=%v", ok, err)
	}

	if err := svc.SaveDimensionGoals(ctx, "user-1", 2026, dimension.Faith, []dto.GoalInput{{GoalName: "Prayer"}}); err != nil {
		t.Fatal(err)
	}

	ok, _ = svc.Exists(ctx, "user-1", 2026)
	if !ok {
		t.Error("保存目标后 Exists 应为 true")
	}

	years, err := svc.Years(ctx, "user-1")
	if err != nil || len(years) != 1 || years[0] != 2026 {
		t.Errorf("年度列表期望 [2026]，实际=%v err=%v", years, err)
	}
}
