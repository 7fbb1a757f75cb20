package bootstrap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Request 描述一次批量拉取中的单个 slot。
type Request struct {
	File string
	URL  string
}

// Result 保存单个 Request 的结果，Err 与 Document 二选一。
type Result struct {
	Request
	Document *Document
	Err      error
}

// FetchAll 并发执行多个 Fetch，limit <= 0 表示不限制并发数。不同 slot 的
// 路径互不相交，因此可以安全并行；同一批次内重复的文件名会被直接拒绝。
// 单个请求失败不会取消其它请求，结果按输入顺序返回。
func (c *Cache) FetchAll(ctx context.Context, reqs []Request, limit int) ([]Result, error) {
	seen := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		if _, dup := seen[req.File]; dup {
			return nil, fmt.Errorf("%w: %q requested twice in one batch", ErrInvalidSlot, req.File)
		}
		seen[req.File] = struct{}{}
	}

	results := make([]Result, len(reqs))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			doc, err := c.Fetch(ctx, req.File, req.URL)
			results[i] = Result{Request: req, Document: doc, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}
