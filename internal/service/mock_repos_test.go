package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Faith-Promise-Church/growth-plan/internal/dimension"
	"github.com/Faith-Promise-Church/growth-plan/internal/model"
	"github.com/Faith-Promise-Church/growth-plan/internal/repository"
)

// ── 手写 Mock 仓储，按需注入故障 ──

type mockProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile // key: user_id
	nextID   int
	getErr   error // 注入查询故障
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) Create(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if existing.PhoneNumber == p.PhoneNumber || existing.Email == p.Email {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	p.UserID = fmt.Sprintf("user-%d", m.nextID)
	p.CreatedAt = time.Now()
	m.profiles[p.UserID] = p
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, userID string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockProfileRepo) GetByPhone(_ context.Context, phone string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.profiles {
		if p.PhoneNumber == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockProfileRepo) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockProfileRepo) Update(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = p
	return nil
}

func (m *mockProfileRepo) UpdatePassword(_ context.Context, userID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[userID]; ok {
		p.PasswordHash = hash
		return nil
	}
	return repository.ErrNotFound
}

func (m *mockProfileRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.profiles)), nil
}

func (m *mockProfileRepo) List(_ context.Context, offset, limit int) ([]model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Profile
	for _, p := range m.profiles {
		out = append(out, *p)
	}
	if offset > len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

type mockAssessmentRepo struct {
	mu        sync.Mutex
	records   []model.Assessment // 倒序维护：最新在前
	nextID    int
	createErr error // 注入保存故障
}

func newMockAssessmentRepo() *mockAssessmentRepo {
	return &mockAssessmentRepo{}
}

func (m *mockAssessmentRepo) Create(_ context.Context, a *model.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	a.ID = fmt.Sprintf("assessment-%d", m.nextID)
	m.records = append([]model.Assessment{*a}, m.records...)
	return nil
}

func (m *mockAssessmentRepo) ListByUser(_ context.Context, userID string, limit int) ([]model.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Assessment
	for _, a := range m.records {
		if a.UserID == userID {
			out = append(out, a)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *mockAssessmentRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.records {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *mockAssessmentRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}

func (m *mockAssessmentRepo) DimensionAverages(_ context.Context) ([]repository.DimensionAverage, error) {
	var out []repository.DimensionAverage
	for _, k := range dimension.Order {
		out = append(out, repository.DimensionAverage{Dimension: k, Average: 5.0})
	}
	return out, nil
}

func (m *mockAssessmentRepo) QuestionAverages(_ context.Context) ([]repository.QuestionAverage, error) {
	var out []repository.QuestionAverage
	for _, d := range dimension.All() {
		for q := 1; q <= d.QuestionCount(); q++ {
			out = append(out, repository.QuestionAverage{Dimension: d.Key, Question: q, Average: 5.0})
		}
	}
	return out, nil
}

type mockPlanRepo struct {
	mu     sync.Mutex
	plans  map[string]*model.GrowthPlan // key: userID/year
	nextID int
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{plans: make(map[string]*model.GrowthPlan)}
}

func planKey(userID string, year int) string {
	return fmt.Sprintf("%s/%d", userID, year)
}

func (m *mockPlanRepo) GetByUserYear(_ context.Context, userID string, year int) (*model.GrowthPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.plans[planKey(userID, year)]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockPlanRepo) GetOrCreate(_ context.Context, userID string, year int) (*model.GrowthPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := planKey(userID, year)
	if p, ok := m.plans[key]; ok {
		cp := *p
		return &cp, nil
	}
	m.nextID++
	p := &model.GrowthPlan{
		ID:     fmt.Sprintf("plan-%d", m.nextID),
		UserID: userID,
		Year:   year,
	}
	m.plans[key] = p
	cp := *p
	return &cp, nil
}

func (m *mockPlanRepo) Years(_ context.Context, userID string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var years []int
	for _, p := range m.plans {
		if p.UserID == userID {
			years = append(years, p.Year)
		}
	}
	return years, nil
}

func (m *mockPlanRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.plans)), nil
}

type mockGoalRepo struct {
	mu     sync.Mutex
	goals  map[string][]model.Goal // key: planID/dimension
	nextID int
}

func newMockGoalRepo() *mockGoalRepo {
	return &mockGoalRepo{goals: make(map[string][]model.Goal)}
}

func goalKey(planID string, dim dimension.Key) string {
	return fmt.Sprintf("%s/%s", planID, dim)
}

func (m *mockGoalRepo) ListByPlan(_ context.Context, planID string) ([]model.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Goal
	for _, dim := range dimension.Order {
		out = append(out, m.goals[goalKey(planID, dim)]...)
	}
	return out, nil
}

func (m *mockGoalRepo) ListByPlanDimension(_ context.Context, planID string, dim dimension.Key) ([]model.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Goal(nil), m.goals[goalKey(planID, dim)]...), nil
}

func (m *mockGoalRepo) ReplaceForDimension(_ context.Context, planID string, dim dimension.Key, goals []model.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]model.Goal, len(goals))
	for i, g := range goals {
		m.nextID++
		g.ID = fmt.Sprintf("goal-%d", m.nextID)
		g.GrowthPlanID = planID
		g.Dimension = dim
		g.SortOrder = i
		stored[i] = g
	}
	m.goals[goalKey(planID, dim)] = stored
	return nil
}

type mockBlacklist struct {
	mu   sync.Mutex
	jtis map[string]bool
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{jtis: make(map[string]bool)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jtis[jti] = true
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jtis[jti], nil
}
