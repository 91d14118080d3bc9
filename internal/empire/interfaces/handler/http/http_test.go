package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"EmpireBuilder/internal/empire/app"
	"EmpireBuilder/internal/empire/battle"
	"EmpireBuilder/internal/empire/economy"
	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/empire/infra/persistence/memory"
	"EmpireBuilder/internal/shared/gameconfig/catalog"
	"EmpireBuilder/internal/shared/transport"
)

type fixedRand struct{}

func (fixedRand) Float64() float64 { return 0.5 }

type envelope struct {
	Code   int             `json:"code"`
	Reason string          `json:"reason"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
	Detail map[string]any  `json:"detail"`
}

func newTestServer(t *testing.T) (*gin.Engine, *app.EmpireService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.Default()
	econ := economy.NewEngine(cat, 0, 0)
	svc := app.NewEmpireService(app.Deps{
		Repo:    memory.NewEmpireRepo(),
		Battles: memory.NewBattleLog(100),
		Economy: econ,
		Battle:  battle.NewEngine(cat, battle.WithoutSwing(), battle.WithRand(fixedRand{})),
	})
	r := gin.New()
	NewHttpHandler(svc, svc, cat).RegisterRoutes(r.Group(""))
	return r, svc
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode err=%v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("响应不是 JSON: %s", w.Body.String())
	}
	return w.Code, env
}

func create(t *testing.T, r *gin.Engine, name string) *entity.Empire {
	t.Helper()
	status, env := do(t, r, nethttp.MethodPost, "/api/empires", CreateEmpireReq{Name: name, Ruler: "R", Lat: 1, Lng: 2})
	if status != nethttp.StatusOK || env.Code != transport.OK {
		t.Fatalf("创建失败, status=%d env=%+v", status, env)
	}
	var e entity.Empire
	if err := json.Unmarshal(env.Data, &e); err != nil {
		t.Fatalf("decode empire err=%v", err)
	}
	return &e
}

func TestCreateAndGet_返回初始快照(t *testing.T) {
	r, _ := newTestServer(t)
	e := create(t, r, "Rome")
	if e.ID == "" || e.Land != entity.StartingLand || e.Resources.Gold != entity.StartingResources.Gold {
		t.Fatalf("初始快照不符, got=%+v", e)
	}

	status, env := do(t, r, nethttp.MethodGet, "/api/empires/"+string(e.ID), nil)
	if status != nethttp.StatusOK || env.Code != transport.OK {
		t.Fatalf("查询失败, status=%d env=%+v", status, env)
	}
}

func TestGetEmpire_不存在返回404(t *testing.T) {
	r, _ := newTestServer(t)
	status, env := do(t, r, nethttp.MethodGet, "/api/empires/nope", nil)
	if status != nethttp.StatusNotFound || env.Code != transport.NotFound || env.Reason != string(entity.CodeEmpireNotFound) {
		t.Fatalf("期望 404 EMPIRE_NOT_FOUND, status=%d env=%+v", status, env)
	}
}

func TestCreateEmpire_空名称被拒绝(t *testing.T) {
	r, _ := newTestServer(t)
	status, env := do(t, r, nethttp.MethodPost, "/api/empires", CreateEmpireReq{Name: " ", Ruler: "R"})
	if status != nethttp.StatusUnprocessableEntity || env.Reason != string(entity.CodeInvalidName) {
		t.Fatalf("期望 422 INVALID_NAME, status=%d env=%+v", status, env)
	}
}

func TestTrain_资源不足返回缺少的资源(t *testing.T) {
	r, _ := newTestServer(t)
	e := create(t, r, "Rome")

	status, env := do(t, r, nethttp.MethodPost, "/api/empires/"+string(e.ID)+"/train",
		TrainReq{Units: map[string]int64{"tanks": 100000}})
	if status != nethttp.StatusUnprocessableEntity || env.Reason != string(entity.CodeInsufficientResources) {
		t.Fatalf("期望 INSUFFICIENT_RESOURCES, status=%d env=%+v", status, env)
	}
	if env.Detail == nil {
		t.Fatalf("期望返回缺少资源的详情")
	}
}

func TestTrain_未知兵种被拒绝(t *testing.T) {
	r, _ := newTestServer(t)
	e := create(t, r, "Rome")

	_, env := do(t, r, nethttp.MethodPost, "/api/empires/"+string(e.ID)+"/train",
		TrainReq{Units: map[string]int64{"dragons": 1}})
	if env.Reason != string(entity.CodeUnknownKind) {
		t.Fatalf("期望 UNKNOWN_KIND, env=%+v", env)
	}
}

func TestTrain_成功扣费并返回造价(t *testing.T) {
	r, _ := newTestServer(t)
	e := create(t, r, "Rome")

	status, env := do(t, r, nethttp.MethodPost, "/api/empires/"+string(e.ID)+"/train",
		TrainReq{Units: map[string]int64{"infantry": 10}})
	if status != nethttp.StatusOK {
		t.Fatalf("训练失败, env=%+v", env)
	}
	var resp TrainResp
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if resp.Empire.Military.Infantry != entity.StartingMilitary.Infantry+10 || resp.Cost.Gold <= 0 {
		t.Fatalf("训练结果不符, got=%+v", resp)
	}
	if resp.Empire.Resources.Gold != entity.StartingResources.Gold-resp.Cost.Gold {
		t.Fatalf("金币扣减不符, got=%d cost=%d", resp.Empire.Resources.Gold, resp.Cost.Gold)
	}
}

func TestAttackAndBattles_战报可查询(t *testing.T) {
	r, _ := newTestServer(t)
	a := create(t, r, "A")
	d := create(t, r, "D")

	status, env := do(t, r, nethttp.MethodPost, "/api/empires/"+string(a.ID)+"/attack",
		AttackReq{DefenderID: string(d.ID), Units: map[string]int64{"infantry": 50}})
	if status != nethttp.StatusOK {
		t.Fatalf("攻击失败, env=%+v", env)
	}
	var res entity.BattleResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if res.AttackerID != a.ID || res.DefenderID != d.ID {
		t.Fatalf("战报双方不符, got=%+v", res)
	}

	_, env = do(t, r, nethttp.MethodGet, "/api/empires/"+string(d.ID)+"/battles?limit=5", nil)
	var list []entity.BattleResult
	if err := json.Unmarshal(env.Data, &list); err != nil || len(list) != 1 || list[0].ID != res.ID {
		t.Fatalf("期望守方也能查到战报, got=%s err=%v", env.Data, err)
	}

	status, env = do(t, r, nethttp.MethodGet, "/api/empires/"+string(d.ID)+"/battles?limit=x", nil)
	if status != nethttp.StatusBadRequest || env.Code != transport.InvalidParam {
		t.Fatalf("期望非法 limit 返回 400, status=%d env=%+v", status, env)
	}
}

func TestAttack_攻击自己被拒绝(t *testing.T) {
	r, _ := newTestServer(t)
	a := create(t, r, "A")

	_, env := do(t, r, nethttp.MethodPost, "/api/empires/"+string(a.ID)+"/attack",
		AttackReq{DefenderID: string(a.ID), Units: map[string]int64{"infantry": 1}})
	if env.Reason != string(entity.CodeSelfAttack) {
		t.Fatalf("期望 SELF_ATTACK, env=%+v", env)
	}
}

func TestBuildCityAndLand_正常流程(t *testing.T) {
	r, _ := newTestServer(t)
	e := create(t, r, "Rome")
	base := "/api/empires/" + string(e.ID)

	status, env := do(t, r, nethttp.MethodPost, base+"/cities", BuildCityReq{Name: "Capua", Tier: "small"})
	if status != nethttp.StatusOK {
		t.Fatalf("建城失败, env=%+v", env)
	}
	var city BuildCityResp
	if err := json.Unmarshal(env.Data, &city); err != nil || city.City == nil {
		t.Fatalf("decode err=%v data=%s", err, env.Data)
	}

	status, env = do(t, r, nethttp.MethodPost, base+"/buildings", BuildBuildingReq{CityID: string(city.City.ID), Kind: "farm"})
	if status != nethttp.StatusOK {
		t.Fatalf("建造失败, env=%+v", env)
	}

	status, env = do(t, r, nethttp.MethodPost, base+"/land", BuyLandReq{Acres: 0})
	if status != nethttp.StatusUnprocessableEntity || env.Reason != string(entity.CodeInvalidAmount) {
		t.Fatalf("期望购买 0 英亩被拒绝, status=%d env=%+v", status, env)
	}

	status, env = do(t, r, nethttp.MethodPost, base+"/buildings", BuildBuildingReq{CityID: "missing", Kind: "farm"})
	if status != nethttp.StatusNotFound || env.Reason != string(entity.CodeCityNotFound) {
		t.Fatalf("期望城市不存在返回 404, status=%d env=%+v", status, env)
	}
}

func TestLeaderboard_按战力排序(t *testing.T) {
	r, svc := newTestServer(t)
	weak := create(t, r, "Weak")
	strong := create(t, r, "Strong")
	if _, _, err := svc.Train(t.Context(), strong.ID, entity.Military{Infantry: 10}); err != nil {
		t.Fatalf("Train err=%v", err)
	}

	_, env := do(t, r, nethttp.MethodGet, "/api/leaderboard", nil)
	var ranks []RankEntry
	if err := json.Unmarshal(env.Data, &ranks); err != nil || len(ranks) != 2 {
		t.Fatalf("decode err=%v data=%s", err, env.Data)
	}
	if ranks[0].ID != strong.ID || ranks[0].Rank != 1 || ranks[1].ID != weak.ID {
		t.Fatalf("排名不符, got=%+v", ranks)
	}
}

func TestLeaderboard_只排玩家并截取前几名(t *testing.T) {
	r, svc := newTestServer(t)
	weak := create(t, r, "Weak")
	strong := create(t, r, "Strong")
	if _, _, err := svc.Train(t.Context(), strong.ID, entity.Military{Infantry: 10}); err != nil {
		t.Fatalf("Train err=%v", err)
	}
	if _, err := svc.SeedAI(t.Context(), 2, "hard"); err != nil {
		t.Fatalf("SeedAI err=%v", err)
	}

	_, env := do(t, r, nethttp.MethodGet, "/api/leaderboard", nil)
	var ranks []RankEntry
	if err := json.Unmarshal(env.Data, &ranks); err != nil || len(ranks) != 4 {
		t.Fatalf("期望默认包含 AI, err=%v data=%s", err, env.Data)
	}

	_, env = do(t, r, nethttp.MethodGet, "/api/leaderboard?human=true", nil)
	ranks = nil
	if err := json.Unmarshal(env.Data, &ranks); err != nil || len(ranks) != 2 {
		t.Fatalf("期望只有 2 个玩家, err=%v data=%s", err, env.Data)
	}
	for _, e := range ranks {
		if e.IsAI {
			t.Fatalf("human=true 不应包含 AI, got=%+v", e)
		}
	}
	if ranks[0].ID != strong.ID || ranks[0].Rank != 1 || ranks[1].ID != weak.ID {
		t.Fatalf("玩家排名不符, got=%+v", ranks)
	}

	_, env = do(t, r, nethttp.MethodGet, "/api/leaderboard?human=true&limit=1", nil)
	ranks = nil
	if err := json.Unmarshal(env.Data, &ranks); err != nil || len(ranks) != 1 || ranks[0].ID != strong.ID {
		t.Fatalf("期望只返回第一名, err=%v data=%s", err, env.Data)
	}

	if status, _ := do(t, r, nethttp.MethodGet, "/api/leaderboard?human=maybe", nil); status != nethttp.StatusBadRequest {
		t.Fatalf("期望非法参数返回 400, got=%d", status)
	}
}

func TestCatalog_返回配置(t *testing.T) {
	r, _ := newTestServer(t)
	status, env := do(t, r, nethttp.MethodGet, "/api/catalog", nil)
	if status != nethttp.StatusOK || len(env.Data) == 0 {
		t.Fatalf("期望返回 catalog, status=%d", status)
	}
}
