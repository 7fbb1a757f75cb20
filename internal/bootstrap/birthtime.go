package bootstrap

// statError 表示元数据查询本身失败（通常是文件不存在），
// 决策层据此把 slot 视为缺失并走写入路径。
type statError struct {
	path string
	err  error
}

func (e *statError) Error() string {
	return "stat " + e.path + ": " + e.err.Error()
}

func (e *statError) Unwrap() error {
	return e.err
}
