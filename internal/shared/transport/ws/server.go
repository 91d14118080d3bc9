package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"EmpireBuilder/modules/kit/logx"
)

// Server 把 HTTP 请求升级为 ws 连接，并挂上路由。
type Server struct {
	router   *Router
	log      logx.Logger
	secure   bool
	upgrader websocket.Upgrader
}

func NewServer(r *Router, secure bool, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		log:    l,
		secure: secure,
		upgrader: websocket.Upgrader{
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}
	s.log.Debug("websocket upgrade success", zap.String("addr", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.secure, s.log)
	wsServer.Router(s.router)
	if s.secure {
		wsServer.handshake()
	}
	wsServer.Run()
}
