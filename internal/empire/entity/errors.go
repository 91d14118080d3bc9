package entity

import (
	"EmpireBuilder/modules/kit/errx"
)

// 业务拒绝码：全部发生在任何修改之前。
const (
	CodeInsufficientResources errx.Code = "INSUFFICIENT_RESOURCES"
	CodeInsufficientLand      errx.Code = "INSUFFICIENT_LAND"
	CodeInsufficientUnits     errx.Code = "INSUFFICIENT_UNITS"
	CodeUnknownKind           errx.Code = "UNKNOWN_KIND"
	CodeCityNotFound          errx.Code = "CITY_NOT_FOUND"
	CodeBuildingLimit         errx.Code = "BUILDING_LIMIT"
	CodeCityFull              errx.Code = "CITY_FULL"
	CodeSelfAttack            errx.Code = "SELF_ATTACK"
	CodeEmpireNotFound        errx.Code = "EMPIRE_NOT_FOUND"
	CodeInvalidAmount         errx.Code = "INVALID_AMOUNT"
	CodeInvalidName           errx.Code = "INVALID_NAME"
)

var (
	ErrInsufficientResources = errx.NewBiz(CodeInsufficientResources, "资源不足")
	ErrInsufficientLand      = errx.NewBiz(CodeInsufficientLand, "土地不足")
	ErrInsufficientUnits     = errx.NewBiz(CodeInsufficientUnits, "兵力不足")
	ErrUnknownKind           = errx.NewBiz(CodeUnknownKind, "未知的兵种/建筑/城市等级")
	ErrCityNotFound          = errx.NewBiz(CodeCityNotFound, "城市不存在")
	ErrBuildingLimit         = errx.NewBiz(CodeBuildingLimit, "该建筑已达单城上限")
	ErrCityFull              = errx.NewBiz(CodeCityFull, "城市建筑总数已满")
	ErrSelfAttack            = errx.NewBiz(CodeSelfAttack, "不能攻击自己")
	ErrEmpireNotFound        = errx.NewBiz(CodeEmpireNotFound, "帝国不存在")
	ErrInvalidAmount         = errx.NewBiz(CodeInvalidAmount, "数量非法")
	ErrInvalidName           = errx.NewBiz(CodeInvalidName, "名称不能为空")
)
