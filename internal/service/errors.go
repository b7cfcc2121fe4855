package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Forbidden           = 403
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid   = errors.New("参数错误")
	ErrRoleInvalid    = errors.New("角色不存在")
	ErrPeriodInvalid  = errors.New("统计周期不合法")
	ErrSelfRoleChange = errors.New("不能修改自己的管理员角色")
	ErrSelfDelete     = errors.New("不能删除自己的账号")
	ErrSelfDeactivate = errors.New("不能停用自己的账号")
	ErrEmptyPatch     = errors.New("没有需要修改的字段")
	ErrUserSourceDown = errors.New("用户数据源不可用")
	ErrSnapshotBusy   = errors.New("快照正在生成，请稍后重试")
	UnExpectedError   = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:   BadRequest,
	ErrRoleInvalid:    BadRequest,
	ErrPeriodInvalid:  BadRequest,
	ErrSelfRoleChange: Forbidden,
	ErrSelfDelete:     Forbidden,
	ErrSelfDeactivate: Forbidden,
	ErrEmptyPatch:     BadRequest,
	ErrUserSourceDown: InternalServerError,
	ErrSnapshotBusy:   Conflict,
	UnExpectedError:   InternalServerError,
}
