// Package errors 定义跨层共享的哨兵错误。
package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突。
// 带 version 列的表在 UPDATE 时附带版本号条件，影响行数为 0 即判定冲突，
// 调用方应提示用户刷新后基于最新数据重试
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
