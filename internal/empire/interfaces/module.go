package interfaces

import (
	"github.com/gin-gonic/gin"

	"EmpireBuilder/internal/empire/interfaces/handler/http"
	wshandler "EmpireBuilder/internal/empire/interfaces/handler/ws"
	"EmpireBuilder/internal/shared/gameconfig/catalog"
	transporthttp "EmpireBuilder/internal/shared/transport/http"
	"EmpireBuilder/internal/shared/transport/ws"
)

// Module 帝国模块的对外入口：HTTP 接口 + ws 订阅。
type Module struct {
	wsHandler   *wshandler.WsHandler
	httpHandler *http.HttpHandler
}

func New(cmds http.Commands, queries http.Queries, cat *catalog.Catalog, hub *ws.Hub) *Module {
	return &Module{
		wsHandler:   wshandler.NewWsHandler(cmds, hub),
		httpHandler: http.NewHttpHandler(cmds, queries, cat),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
