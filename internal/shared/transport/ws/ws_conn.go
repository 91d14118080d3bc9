package ws

// ReqBody 客户端上行帧。Name 形如 "empire.join"，Msg 由各 handler 用 Bind 解出。
type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

// RespBody 下行帧。Seq 为 0 表示服务端主动推送。
type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

// WSConn 一条已握手的连接，handler 与 Hub 只通过它收发和挂属性。
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	Push(name string, data any)
	Close()
	// Done 连接关闭后返回已关闭的 channel，Hub 靠它自动退房。
	Done() <-chan struct{}
}

// Handshake 开启加密时下发的会话密钥。
type Handshake struct {
	Key string `json:"key"`
}

// Heartbeat 客户端带 CTime 上来，服务端补上 STime 原样返回。
type Heartbeat struct {
	CTime int64 `json:"ctime"`
	STime int64 `json:"stime"`
}

const (
	HandshakeMsg = "handshake"
	HeartbeatMsg = "heartbeat"

	// SecretKey 连接属性键，保存本连接的 AES 密钥。
	SecretKey = "secret_key"
)
