package app

import (
	"EmpireBuilder/modules/kit/errx"
)

var (
	ErrInternalServer = errx.ErrInternal
	ErrUnavailable    = errx.ErrUnavailable
)

// storageErr 业务拒绝与并发冲突原样上抛，其它存储错误统一转为 UNAVAILABLE 并保留 cause。
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if errx.IsBiz(err) || errx.IsRetryable(err) {
		return err
	}
	return ErrUnavailable.WithCause(err)
}
