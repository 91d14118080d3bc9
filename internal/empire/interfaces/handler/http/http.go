package http

import (
	"context"
	nethttp "net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/empire/interfaces/handler"
	"EmpireBuilder/internal/shared/gameconfig/catalog"
	"EmpireBuilder/internal/shared/transport"
	"EmpireBuilder/modules/kit/errx"
)

// Commands 单个帝国的读写，生产环境由 actor.Runtime 实现（按帝国串行）。
type Commands interface {
	GetEmpire(ctx context.Context, id entity.EmpireID) (*entity.Empire, error)
	Train(ctx context.Context, id entity.EmpireID, units entity.Military) (*entity.Empire, entity.Resources, error)
	BuildCity(ctx context.Context, id entity.EmpireID, name string, tier entity.CityTier) (*entity.Empire, *entity.City, error)
	BuildBuilding(ctx context.Context, id entity.EmpireID, cityID entity.CityID, kind entity.BuildingKind) (*entity.Empire, error)
	BuyLand(ctx context.Context, id entity.EmpireID, acres int64) (*entity.Empire, int64, error)
	Attack(ctx context.Context, attackerID, defenderID entity.EmpireID, units entity.Military) (*entity.BattleResult, error)
}

// Queries 跨帝国的查询与创建，由 app.EmpireService 实现。
type Queries interface {
	CreateEmpire(ctx context.Context, name, ruler string, lat, lng float64) (*entity.Empire, error)
	ListEmpires(ctx context.Context) ([]*entity.Empire, error)
	BattleHistory(ctx context.Context, id entity.EmpireID, limit int) ([]*entity.BattleResult, error)
}

type HttpHandler struct {
	cmds    Commands
	queries Queries
	cat     *catalog.Catalog
}

func NewHttpHandler(cmds Commands, queries Queries, cat *catalog.Catalog) *HttpHandler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &HttpHandler{cmds: cmds, queries: queries, cat: cat}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	api := group.Group("/api")
	api.GET("/catalog", h.Catalog)
	api.GET("/leaderboard", h.Leaderboard)

	empires := api.Group("/empires")
	empires.POST("", h.CreateEmpire)
	empires.GET("", h.ListEmpires)
	empires.GET("/:id", h.GetEmpire)
	empires.POST("/:id/train", h.Train)
	empires.POST("/:id/cities", h.BuildCity)
	empires.POST("/:id/buildings", h.BuildBuilding)
	empires.POST("/:id/land", h.BuyLand)
	empires.POST("/:id/attack", h.Attack)
	empires.GET("/:id/battles", h.Battles)
}

func (h *HttpHandler) Catalog(c *gin.Context) {
	h.ok(c, h.cat)
}

func (h *HttpHandler) CreateEmpire(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateEmpireReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	e, err := h.queries.CreateEmpire(ctx, req.Name, req.Ruler, req.Lat, req.Lng)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, e)
}

func (h *HttpHandler) ListEmpires(c *gin.Context) {
	ctx := c.Request.Context()

	all, err := h.queries.ListEmpires(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, all)
}

func (h *HttpHandler) GetEmpire(c *gin.Context) {
	ctx := c.Request.Context()

	e, err := h.cmds.GetEmpire(ctx, empireID(c))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, e)
}

func (h *HttpHandler) Train(c *gin.Context) {
	ctx := c.Request.Context()

	var req TrainReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	units, err := handler.ParseMilitary(req.Units)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	e, cost, err := h.cmds.Train(ctx, empireID(c), units)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, TrainResp{Empire: e, Cost: cost})
}

func (h *HttpHandler) BuildCity(c *gin.Context) {
	ctx := c.Request.Context()

	var req BuildCityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	e, city, err := h.cmds.BuildCity(ctx, empireID(c), req.Name, entity.CityTier(req.Tier))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, BuildCityResp{Empire: e, City: city})
}

func (h *HttpHandler) BuildBuilding(c *gin.Context) {
	ctx := c.Request.Context()

	var req BuildBuildingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	e, err := h.cmds.BuildBuilding(ctx, empireID(c), entity.CityID(req.CityID), entity.BuildingKind(req.Kind))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, e)
}

func (h *HttpHandler) BuyLand(c *gin.Context) {
	ctx := c.Request.Context()

	var req BuyLandReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	e, gold, err := h.cmds.BuyLand(ctx, empireID(c), req.Acres)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, BuyLandResp{Empire: e, Gold: gold})
}

func (h *HttpHandler) Attack(c *gin.Context) {
	ctx := c.Request.Context()

	var req AttackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	units, err := handler.ParseMilitary(req.Units)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	res, err := h.cmds.Attack(ctx, empireID(c), entity.EmpireID(req.DefenderID), units)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) Battles(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.error(ctx, c, errx.ErrReqParamERR.WithData("limit", raw))
			return
		}
		limit = n
	}
	out, err := h.queries.BattleHistory(ctx, empireID(c), limit)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, out)
}

// Leaderboard 默认包含 AI；human=true 只排玩家帝国，limit>0 截取前 limit 名。
func (h *HttpHandler) Leaderboard(c *gin.Context) {
	ctx := c.Request.Context()

	humanOnly := false
	if raw := c.Query("human"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.error(ctx, c, errx.ErrReqParamERR.WithData("human", raw))
			return
		}
		humanOnly = v
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.error(ctx, c, errx.ErrReqParamERR.WithData("limit", raw))
			return
		}
		limit = n
	}

	all, err := h.queries.ListEmpires(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	if humanOnly {
		humans := all[:0:0]
		for _, e := range all {
			if !e.IsAI {
				humans = append(humans, e)
			}
		}
		all = humans
	}
	ranks := Rank(h.cat, all)
	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	h.ok(c, ranks)
}

// Rank 按战力降序排名，战力相同按土地，再按 id。
func Rank(cat *catalog.Catalog, empires []*entity.Empire) []RankEntry {
	out := make([]RankEntry, 0, len(empires))
	for _, e := range empires {
		out = append(out, RankEntry{
			ID:     e.ID,
			Name:   e.Name,
			Ruler:  e.Ruler,
			IsAI:   e.IsAI,
			Power:  cat.Power(e.Military),
			Land:   e.Land,
			Cities: len(e.Cities),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Power != out[j].Power {
			return out[i].Power > out[j].Power
		}
		if out[i].Land != out[j].Land {
			return out[i].Land > out[j].Land
		}
		return out[i].ID < out[j].ID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func empireID(c *gin.Context) entity.EmpireID {
	return entity.EmpireID(c.Param("id"))
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, Response{Code: transport.OK, Data: data})
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(statusOf(code), Response{Code: code, Reason: string(errx.CodeReqParamError), Msg: msg})
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, body := handler.HandleError(ctx, err)
	c.JSON(statusOf(code), Response{Code: code, Reason: body.Reason, Msg: body.Msg, Detail: body.Data})
}

// statusOf 业务码本身就是 HTTP 状态码区间内的值，直接复用。
func statusOf(code int) int {
	if code == transport.OK {
		return nethttp.StatusOK
	}
	if code < 400 || code > 599 {
		return nethttp.StatusInternalServerError
	}
	return code
}
