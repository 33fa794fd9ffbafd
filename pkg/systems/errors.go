package systems

import "errors"

var (
	// ErrEntityNotFound 目标实体不存在
	ErrEntityNotFound = errors.New("entity not found")

	// ErrAxisBusy 同一 (实体, 轴) 上直接补间与子贡献互斥
	ErrAxisBusy = errors.New("axis already driven by another tween pathway")
)
