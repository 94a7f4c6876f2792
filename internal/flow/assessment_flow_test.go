package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Faith-Promise-Church/growth-plan/internal/dimension"
	"github.com/Faith-Promise-Church/growth-plan/internal/dto"
)

// fakeSubmitter 记录提交参数并返回预置结果
type fakeSubmitter struct {
	mu        sync.Mutex
	submitted map[dimension.Key][]int
	calls     int
	delay     time.Duration
	err       error
	latest    *dto.AssessmentResponse
	history   *dto.AssessmentHistoryResponse
}

func (s *fakeSubmitter) Submit(_ context.Context, _ string, answers map[dimension.Key][]int) (*dto.AssessmentResponse, error) {
	s.mu.Lock()
	s.calls++
	s.submitted = answers
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}

	scores := make([]dto.DimensionScore, 0, dimension.Count)
	for _, d := range dimension.All() {
		score := dimension.Score(answers[d.Key])
		scores = append(scores, dto.DimensionScore{Dimension: d.Key, Name: d.Name, Score: score})
	}
	return &dto.AssessmentResponse{ID: "a-1", Scores: scores, Saved: true}, nil
}

func (s *fakeSubmitter) Latest(_ context.Context, _ string) (*dto.AssessmentResponse, error) {
	if s.latest == nil {
		return nil, errors.New("no assessments found")
	}
	return s.latest, nil
}

func (s *fakeSubmitter) History(_ context.Context, _ string) (*dto.AssessmentHistoryResponse, error) {
	return s.history, nil
}

// answerAll 走完整个评估：每个维度引导页 + 全部题目
func answerAll(t *testing.T, f *AssessmentFlow, value int) *AssessmentView {
	t.Helper()
	var v *AssessmentView
	var err error
	for _, d := range dimension.All() {
		if v, err = f.Next(); err != nil {
			t.Fatalf("维度 %s 进入答题失败: %v", d.Key, err)
		}
		for q := 0; q < d.QuestionCount(); q++ {
			if v, err = f.Answer(value); err != nil {
				t.Fatalf("维度 %s 第 %d 题作答失败: %v", d.Key, q, err)
			}
		}
	}
	return v
}

func TestAssessmentFlowWalkthrough(t *testing.T) {
	m := NewManager()
	f := m.StartAssessment("user-1")

	v := f.View()
	if v.State != StateSplash || v.Dimension.Key != dimension.Faith {
		t.Fatalf("会话应从 faith 引导页开始，实际=%+v", v)
	}

	v = answerAll(t, f, 7)
	if v.State != StateSaving {
		t.Fatalf("答完 20 题应进入待提交状态，实际=%s", v.State)
	}
	if v.Answered != dimension.TotalQuestions() {
		t.Errorf("应答 %d 题，实际=%d", dimension.TotalQuestions(), v.Answered)
	}

	svc := &fakeSubmitter{}
	v, err := f.Finish(context.Background(), svc)
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if v.State != StateResults || v.Results == nil {
		t.Fatalf("提交后应进入结果页，实际=%+v", v)
	}
	if len(svc.submitted[dimension.Health]) != 2 {
		t.Errorf("health 应提交 2 个答案，实际=%v", svc.submitted[dimension.Health])
	}
}

func TestAssessmentFlowSplashBetweenDimensions(t *testing.T) {
	m := NewManager()
	f := m.StartAssessment("user-1")

	f.Next()
	var v *AssessmentView
	for q := 0; q < 3; q++ {
		v, _ = f.Answer(5)
	}
	// faith 答完应进入 relationships 引导页
	if v.State != StateSplash || v.Dimension.Key != dimension.Relationships {
		t.Fatalf("期望 relationships 引导页，实际=%+v", v)
	}
}

func TestAssessmentFlowBack(t *testing.T) {
	m := NewManager()
	f := m.StartAssessment("user-1")

	// 首个引导页不可回退
	if _, err := f.Back(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("首页回退期望 ErrInvalidTransition，实际=%v", err)
	}

	f.Next()
	f.Answer(8)
	v, err := f.Back()
	if err != nil {
		t.Fatal(err)
	}
	if v.State != StateQuestion || v.QuestionIndex != 0 {
		t.Fatalf("回退应回到第一题，实际=%+v", v)
	}
	// 已选值保留
	if v.Value != 8 {
		t.Errorf("回退后应保留已选值 8，实际=%d", v.Value)
	}

	// 第一题再回退到引导页
	v, _ = f.Back()
	if v.State != StateSplash {
		t.Errorf("期望回到引导页，实际=%s", v.State)
	}

	// 跨维度回退：relationships 引导页回到 faith 末题
	f.Next()
	for q := 0; q < 3; q++ {
		v, _ = f.Answer(5)
	}
	if v.State != StateSplash || v.Dimension.Key != dimension.Relationships {
		t.Fatalf("应处于 relationships 引导页，实际=%+v", v)
	}
	v, _ = f.Back()
	if v.State != StateQuestion || v.Dimension.Key != dimension.Faith || v.QuestionIndex != 2 {
		t.Errorf("跨维度回退应回到 faith 末题，实际=%+v", v)
	}
}

func TestAssessmentFlowBusyGuard(t *testing.T) {
	m := NewManager()
	f := m.StartAssessment("user-1")
	answerAll(t, f, 5)

	svc := &fakeSubmitter{delay: 50 * time.Millisecond}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := f.Finish(context.Background(), svc); err != nil {
			t.Errorf("提交失败: %v", err)
		}
	}()

	// 提交进行中：并发操作一律拒绝
	time.Sleep(10 * time.Millisecond)
	if _, err := f.Answer(5); !errors.Is(err, ErrFlowBusy) {
		t.Errorf("提交中作答期望 ErrFlowBusy，实际=%v", err)
	}
	if _, err := f.Finish(context.Background(), svc); !errors.Is(err, ErrFlowBusy) {
		t.Errorf("重复提交期望 ErrFlowBusy，实际=%v", err)
	}
	<-done

	if svc.calls != 1 {
		t.Errorf("应只提交一次，实际=%d", svc.calls)
	}
}

func TestAssessmentFlowHistoryAndHistoricalSelect(t *testing.T) {
	m := NewManager()
	f := m.StartAssessment("user-1")
	answerAll(t, f, 6)

	histScores := make(map[dimension.Key]float64, dimension.Count)
	for _, k := range dimension.Order {
		histScores[k] = 4.0
	}
	svc := &fakeSubmitter{
		history: &dto.AssessmentHistoryResponse{
			Items: []dto.AssessmentHistoryItem{
				{ID: "old-1", AssessmentDate: "2025-06-01T00:00:00Z", Scores: histScores},
			},
			Total: 1,
		},
	}

	if _, err := f.Finish(context.Background(), svc); err != nil {
		t.Fatal(err)
	}

	v, err := f.ViewHistory(context.Background(), svc)
	if err != nil {
		t.Fatal(err)
	}
	if v.State != StateHistory || len(v.History.Items) != 1 {
		t.Fatalf("历史页状态不符: %+v", v)
	}

	// 选择历史记录：回到结果页，viewingHistorical 置位
	v, err = f.SelectHistorical("old-1")
	if err != nil {
		t.Fatal(err)
	}
	if v.State != StateResults || !v.ViewingHistorical {
		t.Fatalf("选择历史记录后应回到结果页且标记 viewing_historical，实际=%+v", v)
	}
	if v.Results.Scores[0].Score != 4.0 {
		t.Errorf("结果页应展示历史得分 4.0，实际=%v", v.Results.Scores[0].Score)
	}

	if _, err := f.SelectHistorical("missing"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("不存在的历史记录期望 ErrInvalidTransition，实际=%v", err)
	}
}

func TestAssessmentFlowBackFromHistoricalRefetchesLatest(t *testing.T) {
	m := NewManager()
	f := m.StartAssessment("user-1")
	answerAll(t, f, 6)

	histScores := make(map[dimension.Key]float64, dimension.Count)
	for _, k := range dimension.Order {
		histScores[k] = 4.0
	}
	svc := &fakeSubmitter{
		history: &dto.AssessmentHistoryResponse{
			Items: []dto.AssessmentHistoryItem{
				{ID: "old-1", AssessmentDate: "2025-06-01T00:00:00Z", Scores: histScores},
			},
			Total: 1,
		},
	}

	latest, err := f.Finish(context.Background(), svc)
	if err != nil {
		t.Fatal(err)
	}
	svc.latest = latest.Results

	f.ViewHistory(context.Background(), svc)
	f.SelectHistorical("old-1")

	// 历史结果页返回时重新拉取最新结果
	v, err := f.BackToResults(context.Background(), svc)
	if err != nil {
		t.Fatal(err)
	}
	if v.State != StateResults || v.ViewingHistorical {
		t.Fatalf("返回后应展示最新结果，实际=%+v", v)
	}
	if v.Results.Scores[0].Score != 6.0 {
		t.Errorf("应恢复最新得分 6.0，实际=%v", v.Results.Scores[0].Score)
	}
}

func TestAssessmentFlowSeedResultsAndRetake(t *testing.T) {
	m := NewManager()
	f := m.StartAssessment("user-1")

	scores := []dto.DimensionScore{{Dimension: dimension.Faith, Score: 7.0}}
	v := f.SeedResults(&dto.AssessmentResponse{ID: "a-9", Scores: scores, Saved: true})
	if v.State != StateResults || v.Results.ID != "a-9" {
		t.Fatalf("已有历史记录的会话应直达结果页，实际=%+v", v)
	}

	// 结果页发起重做：从 faith 引导页从头开始
	v, err := f.Retake()
	if err != nil {
		t.Fatal(err)
	}
	if v.State != StateSplash || v.Dimension.Key != dimension.Faith || v.Answered != 0 {
		t.Fatalf("重做应从头开始，实际=%+v", v)
	}

	// 非结果页不可重做
	if _, err := f.Retake(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("引导页重做期望 ErrInvalidTransition，实际=%v", err)
	}
}

func TestAssessmentFlowDimensionDetail(t *testing.T) {
	m := NewManager()
	f := m.StartAssessment("user-1")
	answerAll(t, f, 6)
	if _, err := f.Finish(context.Background(), &fakeSubmitter{}); err != nil {
		t.Fatal(err)
	}

	v, err := f.ViewDimension(dimension.Purpose)
	if err != nil {
		t.Fatal(err)
	}
	if v.State != StateDetail || v.Detail != dimension.Purpose {
		t.Fatalf("下钻页状态不符: %+v", v)
	}

	v, _ = f.BackToResults(context.Background(), &fakeSubmitter{})
	if v.State != StateResults {
		t.Errorf("返回后应回到结果页，实际=%s", v.State)
	}
}

func TestAssessmentFlowExitDiscards(t *testing.T) {
	m := NewManager()
	f := m.StartAssessment("user-1")
	f.Next()
	f.Answer(9)

	m.EndAssessment("user-1")
	if _, err := m.Assessment("user-1"); !errors.Is(err, ErrNoActiveFlow) {
		t.Errorf("退出后期望 ErrNoActiveFlow，实际=%v", err)
	}

	// 重新开始：全新会话，旧作答不保留
	f2 := m.StartAssessment("user-1")
	v := f2.View()
	if v.State != StateSplash || v.Answered != 0 {
		t.Errorf("新会话应从头开始，实际=%+v", v)
	}
}
