package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"EmpireBuilder/internal/shared/security"
	"EmpireBuilder/internal/shared/utils"
	"EmpireBuilder/modules/kit/logx"
)

const (
	outBuffer      = 256
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
)

var errNoSecretKey = errors.New("secret key not negotiated")

// WsServer 一条 ws 连接。读循环解析请求并交给 Router，写循环独占底层连接的写端并定时发 ping。
// secure 模式下帧格式为 gzip(aes-cbc(json))，否则为 json 文本帧。
type WsServer struct {
	conn   *websocket.Conn
	router *Router
	secure bool
	log    logx.Logger

	out       chan *RespBody
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex // gorilla 同一时刻只允许一个写者，握手可能与写循环并发

	mu    sync.RWMutex
	props map[string]any
}

func NewWsServer(conn *websocket.Conn, secure bool, l logx.Logger) *WsServer {
	if l == nil {
		l = logx.Nop()
	}
	return &WsServer{
		conn:   conn,
		secure: secure,
		log:    l.With(zap.String("addr", conn.RemoteAddr().String())),
		out:    make(chan *RespBody, outBuffer),
		done:   make(chan struct{}),
		props:  make(map[string]any),
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.mu.Lock()
	s.props[key] = value
	s.mu.Unlock()
}

func (s *WsServer) GetProperty(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.props[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.mu.Lock()
	delete(s.props, key)
	s.mu.Unlock()
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 服务端主动推送。连接已关闭或发送队列已满时丢弃，不阻塞调用方。
func (s *WsServer) Push(name string, data any) {
	s.send(&RespBody{Name: name, Msg: data})
}

func (s *WsServer) send(body *RespBody) {
	select {
	case <-s.done:
	case s.out <- body:
	default:
		s.log.Warn("ws out queue full, drop", zap.String("name", body.Name))
	}
}

func (s *WsServer) Run() {
	go s.readLoop()
	go s.writeLoop()
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) readLoop() {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("ws read loop panic", zap.Any("panic", p), zap.Stack("stack"))
		}
		s.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("ws read failed", zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		s.handleFrame(frame)
	}
}

func (s *WsServer) handleFrame(frame []byte) {
	plain, err := s.decode(frame)
	if err != nil {
		s.log.Warn("ws decode failed", zap.Error(err))
		if s.secure {
			// 客户端密钥不对，重新下发
			s.handshake()
		}
		return
	}

	var body ReqBody
	if err := json.Unmarshal(plain, &body); err != nil {
		s.log.Warn("ws request is not json", zap.Error(err))
		return
	}

	// Seq 原样带回，客户端据此匹配请求
	resp := &WsMsgResp{Body: &RespBody{Seq: body.Seq, Name: body.Name}}
	if body.Name == HeartbeatMsg {
		var hb Heartbeat
		_ = mapstructure.Decode(body.Msg, &hb)
		hb.STime = time.Now().UnixMilli()
		resp.Body.Msg = &hb
	} else {
		s.router.Dispatch(&WsMsgReq{Body: &body, Conn: s}, resp)
	}
	s.send(resp.Body)
}

func (s *WsServer) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()
	for {
		select {
		case body := <-s.out:
			if err := s.write(body); err != nil {
				s.log.Debug("ws write failed", zap.String("name", body.Name), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := s.writeFrame(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) decode(frame []byte) ([]byte, error) {
	if !s.secure {
		return frame, nil
	}
	key, _ := s.GetProperty(SecretKey).(string)
	if key == "" {
		return nil, errNoSecretKey
	}
	return security.Open(frame, key)
}

func (s *WsServer) write(body *RespBody) error {
	raw, err := json.Marshal(body)
	if err != nil {
		s.log.Error("ws marshal response failed", zap.String("name", body.Name), zap.Error(err))
		return nil
	}
	if !s.secure {
		return s.writeFrame(websocket.TextMessage, raw)
	}
	key, _ := s.GetProperty(SecretKey).(string)
	if key == "" {
		return errNoSecretKey
	}
	sealed, err := security.Seal(raw, key)
	if err != nil {
		return fmt.Errorf("seal: %w", err)
	}
	return s.writeFrame(websocket.BinaryMessage, sealed)
}

func (s *WsServer) writeFrame(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

// handshake 下发会话密钥。该帧只压缩不加密，客户端拿到密钥后才能解后续帧。
func (s *WsServer) handshake() {
	key, _ := s.GetProperty(SecretKey).(string)
	if key == "" {
		key = utils.RandSeq(16)
		s.SetProperty(SecretKey, key)
	}
	raw, err := json.Marshal(&RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: key}})
	if err != nil {
		s.log.Error("ws marshal handshake failed", zap.Error(err))
		return
	}
	zipped, err := security.Zip(raw)
	if err != nil {
		s.log.Error("ws zip handshake failed", zap.Error(err))
		return
	}
	if err := s.writeFrame(websocket.BinaryMessage, zipped); err != nil {
		s.log.Debug("ws write handshake failed", zap.Error(err))
	}
}
