package errx

// 系统类错误码，所有服务共用，用于告警归类和 transport 层映射状态码。
// 业务错误码（如 INSUFFICIENT_RESOURCES）放在各自领域包里定义。
const (
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeUnavailable   Code = "SERVICE_UNAVAILABLE" // 存储或下游不可用
	CodeTimeout       Code = "TIMEOUT"
	CodeConflict      Code = "CONFLICT" // 乐观锁版本不一致，整体重试即可
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrConflict    = newConflict(CodeConflict, "数据已被并发修改，请重试")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
