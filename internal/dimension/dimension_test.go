package dimension

import "testing"

func TestOrderAndCounts(t *testing.T) {
	if len(Order) != Count {
		t.Fatalf("期望 %d 个维度，实际=%d", Count, len(Order))
	}

	wantCounts := map[Key]int{
		Faith:         3,
		Relationships: 3,
		Finances:      3,
		Health:        2,
		Purpose:       3,
		Character:     3,
		Contentment:   3,
	}
	for key, want := range wantCounts {
		d := Get(key)
		if d == nil {
			t.Fatalf("维度 %s 未注册", key)
		}
		if d.QuestionCount() != want {
			t.Errorf("维度 %s 期望 %d 个问题，实际=%d", key, want, d.QuestionCount())
		}
	}

	if TotalQuestions() != 20 {
		t.Errorf("期望问题总数 20，实际=%d", TotalQuestions())
	}
}

func TestAllFollowsOrder(t *testing.T) {
	defs := All()
	if len(defs) != Count {
		t.Fatalf("期望 %d 个维度，实际=%d", Count, len(defs))
	}
	for i, d := range defs {
		if d.Key != Order[i] {
			t.Errorf("位置 %d 期望 %s，实际=%s", i, Order[i], d.Key)
		}
		if d.Ordinal != i+1 {
			t.Errorf("维度 %s 期望序号 %d，实际=%d", d.Key, i+1, d.Ordinal)
		}
	}
}

func TestMandatoryGoals(t *testing.T) {
	for _, d := range All() {
		if len(d.MandatoryGoals) == 0 {
			t.Errorf("维度 %s 缺少必选目标", d.Key)
		}
	}
	if got := Get(Relationships).MandatoryGoals; len(got) != 1 || got[0] != "Group Attendance" {
		t.Errorf("Relationships 必选目标不符，实际=%v", got)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("faith") {
		t.Error("faith 应为合法维度")
	}
	if IsValid("wealth") {
		t.Error("wealth 不应为合法维度")
	}
}
