package ai

import (
	"testing"
	"time"

	"EmpireBuilder/internal/empire/economy"
	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/shared/gameconfig/catalog"
)

// seqRand 依次返回预设值，用完后重复最后一个。
type seqRand struct {
	floats []float64
	ints   []int
}

func (s *seqRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[0]
	if len(s.floats) > 1 {
		s.floats = s.floats[1:]
	}
	return v
}

func (s *seqRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	if len(s.ints) > 1 {
		s.ints = s.ints[1:]
	}
	return v % n
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func aiEmpire(id entity.EmpireID, s entity.Strategy, m entity.Military) *entity.Empire {
	e := entity.NewEmpire(id, string(id), "bot", entity.Location{}, now)
	e.IsAI = true
	e.AI = &entity.AIProfile{Difficulty: entity.Normal, Strategy: s}
	e.Military = m
	return e
}

func TestShouldAct_简单难度冷却未到不行动(t *testing.T) {
	p := &entity.AIProfile{Difficulty: entity.Easy, LastActionAt: now.Add(-10 * time.Second)}
	if ShouldAct(p, now) {
		t.Fatalf("期望 10s 时不行动")
	}
	p.LastActionAt = now.Add(-120 * time.Second)
	if ShouldAct(p, now) {
		t.Fatalf("期望恰好 120s 时仍不行动")
	}
	p.LastActionAt = now.Add(-121 * time.Second)
	if !ShouldAct(p, now) {
		t.Fatalf("期望超过 120s 后行动")
	}
	if !ShouldAct(&entity.AIProfile{Difficulty: entity.Hard}, now) {
		t.Fatalf("期望从未行动过的 AI 立即行动")
	}
	if ShouldAct(nil, now) {
		t.Fatalf("期望非 AI 帝国不行动")
	}
}

func TestMinInterval(t *testing.T) {
	if MinInterval(entity.Hard) != time.Minute || MinInterval(entity.Normal) != 90*time.Second {
		t.Fatalf("最小间隔不符")
	}
	if MinInterval(entity.Difficulty("insane")) != 90*time.Second {
		t.Fatalf("期望未知难度按 normal")
	}
}

func TestPickStrategy_按权重区间抽取(t *testing.T) {
	// hard: aggressive[0,4) defensive[4,5) economic[5,7) balanced[7,10)
	cases := map[int]entity.Strategy{0: entity.Aggressive, 3: entity.Aggressive, 4: entity.Defensive, 6: entity.Economic, 9: entity.Balanced}
	for roll, want := range cases {
		if got := PickStrategy(entity.Hard, &seqRand{ints: []int{roll}}); got != want {
			t.Fatalf("roll=%d 期望 %s, got=%s", roll, want, got)
		}
	}
	// easy: aggressive[0,1) defensive[1,4) economic[4,7) balanced[7,9)
	if got := PickStrategy(entity.Easy, &seqRand{ints: []int{8}}); got != entity.Balanced {
		t.Fatalf("easy roll=8 期望 balanced, got=%s", got)
	}
}

func newPlanner(r Rand) *Planner {
	return NewPlanner(economy.NewEngine(catalog.Default(), time.Minute, 10), r)
}

func TestDecide_进攻_选最弱其次最近的目标(t *testing.T) {
	self := aiEmpire("me", entity.Aggressive, entity.Military{Infantry: 100, Tanks: 10})
	// 我方战力 1250
	strong := aiEmpire("strong", entity.Defensive, entity.Military{Infantry: 110})
	far := aiEmpire("far", entity.Defensive, entity.Military{Infantry: 20})
	far.Location = entity.Location{Lat: 50, Lng: 50}
	near := aiEmpire("near", entity.Defensive, entity.Military{Infantry: 20})
	near.Location = entity.Location{Lat: 1, Lng: 1}
	weaker := aiEmpire("weaker", entity.Defensive, entity.Military{Infantry: 30})

	in, ok := newPlanner(&seqRand{floats: []float64{0.5}}).Decide(self, []*entity.Empire{self, strong, weaker, far, near})
	if !ok || in.Kind != IntentAttack {
		t.Fatalf("期望进攻决策, got=%+v ok=%v", in, ok)
	}
	if in.Target != "near" {
		t.Fatalf("期望攻击最弱且最近的目标 near, got=%s", in.Target)
	}
	// 0.3 + 0.5*0.4 = 0.5
	if in.Units != (entity.Military{Infantry: 50, Tanks: 5}) {
		t.Fatalf("出征兵力不符, got=%+v", in.Units)
	}
}

func TestDecide_进攻_没有足够弱的目标则不行动(t *testing.T) {
	self := aiEmpire("me", entity.Aggressive, entity.Military{Infantry: 100})
	peer := aiEmpire("peer", entity.Defensive, entity.Military{Infantry: 90})
	if _, ok := newPlanner(nil).Decide(self, []*entity.Empire{peer}); ok {
		t.Fatalf("期望 1000 对 900 不满足 1.2 倍优势")
	}
}

func TestDecide_防御_按优先级贪心训练且不超预算(t *testing.T) {
	self := aiEmpire("me", entity.Defensive, entity.Military{})
	self.Resources = entity.Resources{Gold: 10000, Iron: 5000, Food: 1000, Oil: 1000}

	in, ok := newPlanner(&seqRand{floats: []float64{0.5}}).Decide(self, nil)
	if !ok || in.Kind != IntentTrain {
		t.Fatalf("期望训练决策, got=%+v ok=%v", in, ok)
	}
	// 比例 0.2+0.5*0.3=0.35；步兵上限 min(100,100,50)=50 → 17
	if in.Train.Infantry != 17 {
		t.Fatalf("期望先训练 17 步兵, got=%+v", in.Train)
	}
	cost := economy.NewEngine(catalog.Default(), time.Minute, 10).Catalog().TrainingCost(in.Train)
	if !self.Resources.Covers(cost) {
		t.Fatalf("决策总价超出资源, cost=%+v have=%+v", cost, self.Resources)
	}
	if in.Strategy != entity.Defensive || in.Behavior != entity.Defensive {
		t.Fatalf("策略标记不符, got=%+v", in)
	}
}

func TestDecide_经济_资源不足则不行动(t *testing.T) {
	self := aiEmpire("me", entity.Economic, entity.Military{})
	self.Resources = entity.Resources{Gold: 50}
	if _, ok := newPlanner(nil).Decide(self, nil); ok {
		t.Fatalf("期望买不起任何兵种时不行动")
	}
}

func TestDecide_均衡_随机落到三种行为之一(t *testing.T) {
	self := aiEmpire("me", entity.Balanced, entity.Military{Infantry: 10})
	in, ok := newPlanner(&seqRand{ints: []int{2}, floats: []float64{0.9}}).Decide(self, nil)
	if !ok || in.Behavior != entity.Economic || in.Strategy != entity.Balanced {
		t.Fatalf("期望 balanced 落到 economic, got=%+v ok=%v", in, ok)
	}
}

func TestBootstrap_坐标固定且倍数在区间内(t *testing.T) {
	list := Bootstrap(0, 6, entity.Hard, nil, now)
	if len(list) != 6 {
		t.Fatalf("期望 6 个 AI 帝国, got=%d", len(list))
	}
	for i, e := range list {
		seed := Seeds[i%len(Seeds)]
		if e.Location != seed.Location || !e.IsAI || e.AI == nil || e.AI.Difficulty != entity.Hard {
			t.Fatalf("AI 帝国 %d 配置不符, got=%+v", i, e)
		}
		g := e.Resources.Gold
		if g < 20000 || g > 40000 || g%10000 != 0 {
			t.Fatalf("金币倍数越界, got=%d", g)
		}
		if e.Resources.Food < 10000 || e.Resources.Food > 15000 {
			t.Fatalf("粮食倍数越界, got=%d", e.Resources.Food)
		}
		if e.Military.Infantry < 200 || e.Military.Infantry > 500 || e.Military.Ships < 16 || e.Military.Ships > 40 {
			t.Fatalf("兵力倍数越界, got=%+v", e.Military)
		}
		if e.Resources.Population != 1000 {
			t.Fatalf("人口不参与放大, got=%d", e.Resources.Population)
		}
	}
	if list[5].Name != "Iron Dominion 2" {
		t.Fatalf("期望循环命名, got=%s", list[5].Name)
	}
}

func TestBootstrap_从已有数量续编名称(t *testing.T) {
	list := Bootstrap(5, 2, entity.Normal, nil, now)
	if len(list) != 2 || list[0].Name != "Iron Dominion 2" || list[1].Name != "Golden Republic 2" {
		t.Fatalf("期望续编序号, got=%s,%s", list[0].Name, list[1].Name)
	}
	if list[1].Location != Seeds[1].Location {
		t.Fatalf("期望按序号取坐标, got=%+v", list[1].Location)
	}
}
