package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/internal/dimension"
)

func fullAnswers(value int) map[dimension.Key][]int {
	answers := make(map[dimension.Key][]int, dimension.Count)
	for _, d := range dimension.All() {
		vals := make([]int, d.QuestionCount())
		for i := range vals {
			vals[i] = value
		}
		answers[d.Key] = vals
	}
	return answers
}

func TestSubmitComputesAndSaves(t *testing.T) {
	repo := newMockAssessmentRepo()
	svc := NewAssessmentService(repo, 10*time.Second, zap.NewNop())
	ctx := context.Background()

	answers := fullAnswers(5)
	answers[dimension.Faith] = []int{7, 8, 8} // 7.666… → 7.7

	resp, err := svc.Submit(ctx, "user-1", answers)
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if !resp.Saved {
		t.Error("保存成功时 Saved 应为 true")
	}
	if resp.ID == "" {
		t.Error("保存成功应返回记录 ID")
	}
	if len(resp.Scores) != dimension.Count {
		t.Fatalf("期望 %d 个维度得分，实际=%d", dimension.Count, len(resp.Scores))
	}

	// 维度顺序固定，faith 在首位
	if resp.Scores[0].Dimension != dimension.Faith {
		t.Errorf("得分应按固定维度顺序，首位=%s", resp.Scores[0].Dimension)
	}
	if resp.Scores[0].Score != 7.7 {
		t.Errorf("faith 期望 7.7，实际=%v", resp.Scores[0].Score)
	}
	if resp.Scores[0].Band != "mid-high" {
		t.Errorf("7.7 应落入 mid-high，实际=%s", resp.Scores[0].Band)
	}
	if resp.Scores[0].Encouragement != "Let's go to the next level!" {
		t.Errorf("鼓励语不符，实际=%q", resp.Scores[0].Encouragement)
	}
}

func TestSubmitDefaultsMissingAnswers(t *testing.T) {
	repo := newMockAssessmentRepo()
	svc := NewAssessmentService(repo, 10*time.Second, zap.NewNop())

	// 只提交 faith，其余维度按默认值 5 计分
	resp, err := svc.Submit(context.Background(), "user-1", map[dimension.Key][]int{
		dimension.Faith: {10, 10, 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range resp.Scores {
		switch s.Dimension {
		case dimension.Faith:
			if s.Score != 10.0 {
				t.Errorf("faith 期望 10.0，实际=%v", s.Score)
			}
		default:
			if s.Score != 5.0 {
				t.Errorf("维度 %s 未作答应按默认值计为 5.0，实际=%v", s.Dimension, s.Score)
			}
		}
	}
}

func TestSubmitRejectsBadInput(t *testing.T) {
	svc := NewAssessmentService(newMockAssessmentRepo(), 10*time.Second, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "user-1", map[dimension.Key][]int{dimension.Faith: {0, 5, 5}}); !errors.Is(err, ErrAnswerOutOfRange) {
		t.Errorf("答案 0 期望 ErrAnswerOutOfRange，实际=%v", err)
	}
	if _, err := svc.Submit(ctx, "user-1", map[dimension.Key][]int{dimension.Faith: {11, 5, 5}}); !errors.Is(err, ErrAnswerOutOfRange) {
		t.Errorf("答案 11 期望 ErrAnswerOutOfRange，实际=%v", err)
	}
	if _, err := svc.Submit(ctx, "user-1", map[dimension.Key][]int{"wealth": {5}}); !errors.Is(err, ErrUnknownDimension) {
		t.Errorf("未知维度期望 ErrUnknownDimension，实际=%v", err)
	}
}

func TestSubmitDegradesWhenStoreFails(t *testing.T) {
	repo := newMockAssessmentRepo()
	repo.createErr = errors.New("connection refused")
	svc := NewAssessmentService(repo, 10*time.Second, zap.NewNop())

	resp, err := svc.Submit(context.Background(), "user-1", fullAnswers(8))
	if err != nil {
		t.Fatalf("保存失败不应上抛错误: %v", err)
	}
	if resp.Saved {
		t.Error("保存失败时 Saved 应为 false")
	}
	if resp.ID != "" {
		t.Error("未保存的结果不应携带记录 ID")
	}
	// 得分照常给出
	if len(resp.Scores) != dimension.Count || resp.Scores[0].Score != 8.0 {
		t.Errorf("降级时得分应照常返回，实际=%+v", resp.Scores)
	}
}

func TestHistoryOrderAndLimit(t *testing.T) {
	repo := newMockAssessmentRepo()
	svc := NewAssessmentService(repo, 10*time.Second, zap.NewNop())
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		if _, err := svc.Submit(ctx, "user-1", fullAnswers(5)); err != nil {
			t.Fatal(err)
		}
	}

	hist, err := svc.History(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hist.Items) != 20 {
		t.Errorf("历史记录应截断为 20 条，实际=%d", len(hist.Items))
	}
	if hist.Total != 25 {
		t.Errorf("总数期望 25，实际=%d", hist.Total)
	}
	// 最新在前
	if hist.Items[0].AssessmentDate < hist.Items[1].AssessmentDate {
		t.Error("历史记录应按时间倒序")
	}
}

func TestDimensionDetailWithPrevious(t *testing.T) {
	repo := newMockAssessmentRepo()
	svc := NewAssessmentService(repo, 10*time.Second, zap.NewNop())
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return base }
	first := fullAnswers(4)
	if _, err := svc.Submit(ctx, "user-1", first); err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return base.Add(time.Hour) }
	second := fullAnswers(5)
	second[dimension.Faith] = []int{8, 8, 8}
	if _, err := svc.Submit(ctx, "user-1", second); err != nil {
		t.Fatal(err)
	}

	detail, err := svc.DimensionDetail(ctx, "user-1", dimension.Faith)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Score != 8.0 {
		t.Errorf("最新得分期望 8.0，实际=%v", detail.Score)
	}
	if detail.PreviousScore == nil || *detail.PreviousScore != 4.0 {
		t.Errorf("上次得分期望 4.0，实际=%v", detail.PreviousScore)
	}
	if len(detail.Questions) != 3 || len(detail.Answers) != 3 {
		t.Errorf("faith 应有 3 题 3 答，实际 %d/%d", len(detail.Questions), len(detail.Answers))
	}
	if detail.Answers[0] != 8 {
		t.Errorf("答案应来自最新一次自评，实际=%v", detail.Answers)
	}
}

func TestDimensionDetailNoHistory(t *testing.T) {
	svc := NewAssessmentService(newMockAssessmentRepo(), 10*time.Second, zap.NewNop())
	if _, err := svc.DimensionDetail(context.Background(), "user-1", dimension.Faith); !errors.Is(err, ErrNoAssessments) {
		t.Errorf("无历史记录期望 ErrNoAssessments，实际=%v", err)
	}
}

func TestLatestReturnsMostRecent(t *testing.T) {
	svc := NewAssessmentService(newMockAssessmentRepo(), 10*time.Second, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Latest(ctx, "user-1"); !errors.Is(err, ErrNoAssessments) {
		t.Fatalf("无历史记录期望 ErrNoAssessments，实际=%v", err)
	}

	if _, err := svc.Submit(ctx, "user-1", fullAnswers(4)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(ctx, "user-1", fullAnswers(9)); err != nil {
		t.Fatal(err)
	}

	latest, err := svc.Latest(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if !latest.Saved || len(latest.Scores) != dimension.Count {
		t.Fatalf("最新结果不完整: %+v", latest)
	}
	if latest.Scores[0].Score != 9.0 {
		t.Errorf("应返回最近一次得分 9.0，实际=%v", latest.Scores[0].Score)
	}
}
