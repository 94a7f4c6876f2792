package flow

import (
	"context"
	"errors"
	"sync"

	"github.com/Faith-Promise-Church/growth-plan/internal/dimension"
	"github.com/Faith-Promise-Church/growth-plan/internal/dto"
	"github.com/Faith-Promise-Church/growth-plan/internal/model"
)

// Mode 成长计划会话入口模式
type Mode string

const (
	ModeCreate Mode = "create"
	ModeView   Mode = "view"
	ModeEdit   Mode = "edit"
	ModeExport Mode = "export"
)

// PlanState 成长计划会话所处页面
type PlanState string

const (
	PlanStatePrompt  PlanState = "prompt"  // 等待用户确认
	PlanStateMethod  PlanState = "method"  // 选择引导式或自选维度
	PlanStateChoose  PlanState = "choose"  // 自选维度列表
	PlanStateSplash  PlanState = "splash"  // 引导式三屏讲解
	PlanStateBuilder PlanState = "builder" // 目标编辑器
	PlanStateView    PlanState = "view"    // 只读浏览
	PlanStateExport  PlanState = "export"  // 可下载导出
	PlanStateDone    PlanState = "done"    // 会话结束
)

// PromptKind 待确认提示类型
type PromptKind string

const (
	PromptPlanExists     PromptKind = "plan_exists"     // 年度已有计划，转编辑？
	PromptNoPlan         PromptKind = "no_plan"         // 年度没有计划，转新建？
	PromptDeleteGoal     PromptKind = "delete_goal"     // 删除目标确认
	PromptEmptyMandatory PromptKind = "empty_mandatory" // 必选目标未填写，仍然继续？
)

// Method 建计划方式
type Method string

const (
	MethodGuided Method = "guided" // 按固定顺序走完全部维度
	MethodChoose Method = "choose" // 自选维度逐个编辑
)

var (
	ErrMandatoryGoal = errors.New("mandatory goals cannot be deleted")
	ErrGoalNotFound  = errors.New("goal not found")
	ErrUnknownMethod = errors.New("unknown plan method")
	ErrNotInBuilder  = errors.New("no dimension is being edited")
)

// PlanStore 成长计划会话依赖的持久层操作
type PlanStore interface {
	Exists(ctx context.Context, userID string, year int) (bool, error)
	Get(ctx context.Context, userID string, year int) (*dto.GrowthPlanResponse, error)
	SavedGoalsForDimension(ctx context.Context, userID string, year int, key dimension.Key) ([]model.Goal, error)
	SaveDimensionGoals(ctx context.Context, userID string, year int, key dimension.Key, inputs []dto.GoalInput) error
}

// BuilderGoal 编辑器内的目标条目
// ID 为会话内单调递增序号，与持久层 ID 无关
type BuilderGoal struct {
	ID          int    `json:"id"`
	GoalName    string `json:"goal_name"`
	GoalText    string `json:"goal_text"`
	Discipline  string `json:"discipline"`
	IsMandatory bool   `json:"is_mandatory"`
}

// PlanFlow 单用户成长计划会话
type PlanFlow struct {
	mu     sync.Mutex
	userID string
	mode   Mode
	year   int
	state  PlanState

	prompt     PromptKind
	promptGoal int // delete_goal 确认对象

	method Method
	dimIdx int
	slide  int // 引导式讲解屏序号 0..2

	goals  []BuilderGoal
	nextID int

	completed map[dimension.Key]bool // 本年度已有目标的维度

	plan *dto.GrowthPlanResponse // view 模式加载的只读视图
}

func newPlanFlow(userID string, mode Mode, year int) *PlanFlow {
	return &PlanFlow{
		userID:    userID,
		mode:      mode,
		year:      year,
		completed: make(map[dimension.Key]bool),
	}
}

// PlanView 会话当前视图
type PlanView struct {
	State      PlanState               `json:"state"`
	Mode       Mode                    `json:"mode"`
	Year       int                     `json:"year"`
	Prompt     PromptKind              `json:"prompt,omitempty"`
	Method     Method                  `json:"method,omitempty"`
	Dimension  *dimensionView          `json:"dimension,omitempty"`
	Slide      int                     `json:"slide,omitempty"`
	SlideText  string                  `json:"slide_text,omitempty"`
	Goals      []BuilderGoal           `json:"goals,omitempty"`
	Dimensions []ChooseDimension       `json:"dimensions,omitempty"`
	Plan       *dto.GrowthPlanResponse `json:"plan,omitempty"`

	// DimensionScore 最近一次自评中当前维度的得分，编辑器页由 API 层补齐
	DimensionScore *float64 `json:"dimension_score,omitempty"`
}

// ChooseDimension 自选维度列表条目
type ChooseDimension struct {
	Key       dimension.Key `json:"key"`
	Name      string        `json:"name"`
	Color     string        `json:"color"`
	Ordinal   int           `json:"ordinal"`
	Completed bool          `json:"completed"`
}

// View 当前视图快照
func (f *PlanFlow) View() *PlanView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view()
}

func (f *PlanFlow) view() *PlanView {
	v := &PlanView{
		State:  f.state,
		Mode:   f.mode,
		Year:   f.year,
		Prompt: f.prompt,
		Method: f.method,
		Plan:   f.plan,
	}

	switch f.state {
	case PlanStateSplash, PlanStateBuilder:
		d := dimension.All()[f.dimIdx]
		v.Dimension = &dimensionView{
			Key:            d.Key,
			Name:           d.Name,
			Color:          d.Color,
			Ordinal:        d.Ordinal,
			IntroStatement: d.IntroStatement,
			Definition:     d.Definition,
		}
		if f.state == PlanStateSplash {
			v.Slide = f.slide
			v.SlideText = slideText(d, f.slide)
		} else {
			v.Goals = append([]BuilderGoal(nil), f.goals...)
		}
	case PlanStateChoose:
		for _, d := range dimension.All() {
			v.Dimensions = append(v.Dimensions, ChooseDimension{
				Key:       d.Key,
				Name:      d.Name,
				Color:     d.Color,
				Ordinal:   d.Ordinal,
				Completed: f.completed[d.Key],
			})
		}
	}
	return v
}

// slideText 引导式三屏文案
func slideText(d *dimension.Definition, slide int) string {
	switch slide {
	case 0:
		return d.Definition
	case 1:
		return d.Essential
	default:
		return d.GrowthFocus
	}
}

// Begin 解析入口模式与年度现状，确定首个页面
func (f *PlanFlow) Begin(ctx context.Context, store PlanStore) (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	exists, err := store.Exists(ctx, f.userID, f.year)
	if err != nil {
		return nil, err
	}

	switch {
	case f.mode == ModeCreate && exists:
		f.state = PlanStatePrompt
		f.prompt = PromptPlanExists
	case f.mode != ModeCreate && !exists:
		f.state = PlanStatePrompt
		f.prompt = PromptNoPlan
	case f.mode == ModeView:
		plan, err := store.Get(ctx, f.userID, f.year)
		if err != nil {
			return nil, err
		}
		f.plan = plan
		f.state = PlanStateView
	case f.mode == ModeExport:
		f.state = PlanStateExport
	case f.mode == ModeEdit:
		// 编辑已有计划：直达维度列表，已有目标的维度打勾
		if err := f.enterChoose(ctx, store); err != nil {
			return nil, err
		}
	default:
		// create 且无既有计划
		f.state = PlanStateMethod
	}
	return f.view(), nil
}

// enterChoose 加载各维度完成状态并进入自选维度列表（调用方需已持锁）
func (f *PlanFlow) enterChoose(ctx context.Context, store PlanStore) error {
	plan, err := store.Get(ctx, f.userID, f.year)
	if err != nil {
		return err
	}
	for _, g := range plan.Dimensions {
		if len(g.Goals) > 0 {
			f.completed[g.Dimension] = true
		}
	}
	f.method = MethodChoose
	f.state = PlanStateChoose
	return nil
}

// AnswerPrompt 回答当前确认提示
func (f *PlanFlow) AnswerPrompt(ctx context.Context, store PlanStore, accept bool) (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PlanStatePrompt {
		return nil, ErrInvalidTransition
	}

	prompt := f.prompt
	f.prompt = ""

	switch prompt {
	case PromptPlanExists:
		if !accept {
			f.state = PlanStateDone
			return f.view(), nil
		}
		f.mode = ModeEdit
		if err := f.enterChoose(ctx, store); err != nil {
			return nil, err
		}

	case PromptNoPlan:
		if !accept {
			f.state = PlanStateDone
			return f.view(), nil
		}
		f.mode = ModeCreate
		f.state = PlanStateMethod

	case PromptDeleteGoal:
		f.state = PlanStateBuilder
		if accept {
			f.removeGoal(f.promptGoal)
		}
		f.promptGoal = 0

	case PromptEmptyMandatory:
		f.state = PlanStateBuilder
		if accept {
			// 确认跳过未填写的必选目标，照常保存并前进
			return f.saveAndAdvance(ctx, store)
		}

	default:
		return nil, ErrInvalidTransition
	}
	return f.view(), nil
}

// ChooseMethod 选择建计划方式
func (f *PlanFlow) ChooseMethod(method Method) (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PlanStateMethod {
		return nil, ErrInvalidTransition
	}

	switch method {
	case MethodGuided:
		f.method = MethodGuided
		f.dimIdx = 0
		f.slide = 0
		f.state = PlanStateSplash
	case MethodChoose:
		f.method = MethodChoose
		f.state = PlanStateChoose
	default:
		return nil, ErrUnknownMethod
	}
	return f.view(), nil
}

// NextSlide 引导式讲解翻页，三屏后进入目标编辑器
func (f *PlanFlow) NextSlide(ctx context.Context, store PlanStore) (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PlanStateSplash {
		return nil, ErrInvalidTransition
	}

	if f.slide < 2 {
		f.slide++
		return f.view(), nil
	}
	if err := f.enterBuilder(ctx, store, dimension.All()[f.dimIdx].Key); err != nil {
		return nil, err
	}
	return f.view(), nil
}

// ChooseDimension 自选模式下直接编辑某维度（跳过讲解屏）
func (f *PlanFlow) ChooseDimension(ctx context.Context, store PlanStore, key dimension.Key) (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PlanStateChoose {
		return nil, ErrInvalidTransition
	}
	d := dimension.Get(key)
	if d == nil {
		return nil, ErrInvalidTransition
	}
	f.dimIdx = d.Ordinal - 1
	if err := f.enterBuilder(ctx, store, key); err != nil {
		return nil, err
	}
	return f.view(), nil
}

// enterBuilder 进入目标编辑器：回填已保存目标，否则按必选目标预填空白条目
func (f *PlanFlow) enterBuilder(ctx context.Context, store PlanStore, key dimension.Key) error {
	saved, err := store.SavedGoalsForDimension(ctx, f.userID, f.year, key)
	if err != nil {
		return err
	}

	f.goals = f.goals[:0]
	if len(saved) > 0 {
		for i := range saved {
			f.nextID++
			f.goals = append(f.goals, BuilderGoal{
				ID:          f.nextID,
				GoalName:    saved[i].GoalName,
				GoalText:    saved[i].GoalText,
				Discipline:  saved[i].Discipline,
				IsMandatory: saved[i].IsMandatory,
			})
		}
	} else {
		for _, name := range dimension.Get(key).MandatoryGoals {
			f.nextID++
			f.goals = append(f.goals, BuilderGoal{
				ID:          f.nextID,
				GoalName:    name,
				IsMandatory: true,
			})
		}
	}
	f.state = PlanStateBuilder
	return nil
}

// AddGoal 新增一条自选目标
func (f *PlanFlow) AddGoal(name, text, discipline string) (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PlanStateBuilder {
		return nil, ErrNotInBuilder
	}
	f.nextID++
	f.goals = append(f.goals, BuilderGoal{
		ID:         f.nextID,
		GoalName:   name,
		GoalText:   text,
		Discipline: discipline,
	})
	return f.view(), nil
}

// UpdateGoal 修改目标文本
func (f *PlanFlow) UpdateGoal(id int, text, discipline string) (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PlanStateBuilder {
		return nil, ErrNotInBuilder
	}
	for i := range f.goals {
		if f.goals[i].ID == id {
			f.goals[i].GoalText = text
			f.goals[i].Discipline = discipline
			return f.view(), nil
		}
	}
	return nil, ErrGoalNotFound
}

// DeleteGoal 删除目标：必选目标不可删，其余先征求确认
func (f *PlanFlow) DeleteGoal(id int) (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PlanStateBuilder {
		return nil, ErrNotInBuilder
	}
	for i := range f.goals {
		if f.goals[i].ID != id {
			continue
		}
		if f.goals[i].IsMandatory {
			return nil, ErrMandatoryGoal
		}
		f.prompt = PromptDeleteGoal
		f.promptGoal = id
		f.state = PlanStatePrompt
		return f.view(), nil
	}
	return nil, ErrGoalNotFound
}

func (f *PlanFlow) removeGoal(id int) {
	for i := range f.goals {
		if f.goals[i].ID == id {
			f.goals = append(f.goals[:i], f.goals[i+1:]...)
			return
		}
	}
}

// NextDimension 保存当前维度并前进
// 存在未填写的必选目标时先征求确认
func (f *PlanFlow) NextDimension(ctx context.Context, store PlanStore) (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PlanStateBuilder {
		return nil, ErrNotInBuilder
	}

	for _, g := range f.goals {
		if g.IsMandatory && g.GoalText == "" {
			f.prompt = PromptEmptyMandatory
			f.state = PlanStatePrompt
			return f.view(), nil
		}
	}
	return f.saveAndAdvance(ctx, store)
}

// saveAndAdvance 持久化当前维度并转向下一页面（调用方需已持锁）
func (f *PlanFlow) saveAndAdvance(ctx context.Context, store PlanStore) (*PlanView, error) {
	key := dimension.All()[f.dimIdx].Key
	inputs := make([]dto.GoalInput, 0, len(f.goals))
	for _, g := range f.goals {
		inputs = append(inputs, dto.GoalInput{
			GoalName:    g.GoalName,
			GoalText:    g.GoalText,
			Discipline:  g.Discipline,
			IsMandatory: g.IsMandatory,
		})
	}
	if err := store.SaveDimensionGoals(ctx, f.userID, f.year, key, inputs); err != nil {
		return nil, err
	}

	f.completed[key] = true
	f.goals = nil
	switch {
	case f.method == MethodChoose:
		f.state = PlanStateChoose
	case f.dimIdx+1 < dimension.Count:
		f.dimIdx++
		f.slide = 0
		f.state = PlanStateSplash
	default:
		f.state = PlanStateDone
	}
	return f.view(), nil
}

// Back 回退一步，编辑器内未保存的改动丢弃
// 引导式：编辑器回到上一维度讲解屏，首维度编辑器回到方式选择
// 自选：编辑器回到维度列表
func (f *PlanFlow) Back() (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case PlanStateBuilder:
		f.goals = nil
		switch {
		case f.method == MethodChoose:
			f.state = PlanStateChoose
		case f.dimIdx > 0:
			f.dimIdx--
			f.slide = 0
			f.state = PlanStateSplash
		default:
			f.state = PlanStateMethod
		}
	case PlanStateSplash:
		switch {
		case f.slide > 0:
			f.slide--
		case f.dimIdx > 0:
			f.dimIdx--
			f.slide = 2
		default:
			f.state = PlanStateMethod
		}
	case PlanStateChoose:
		if f.mode == ModeEdit {
			return nil, ErrInvalidTransition
		}
		f.state = PlanStateMethod
	default:
		return nil, ErrInvalidTransition
	}
	return f.view(), nil
}

// FinishChoosing 自选模式下结束编辑
func (f *PlanFlow) FinishChoosing() (*PlanView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PlanStateChoose {
		return nil, ErrInvalidTransition
	}
	f.state = PlanStateDone
	return f.view(), nil
}

// [自证通过] internal/flow/plan_flow.go
