package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// FreshnessWindow 是缓存条目自创建起的有效期，超过后必须重新拉取。
const FreshnessWindow = 7 * 24 * time.Hour

// 决策标签，同时用于日志 action 与指标 label。
const (
	DecisionHit    = "hit"
	DecisionMiss   = "miss"
	DecisionStale  = "stale"
	DecisionRepair = "repair"
)

// Doer 抽象上游 HTTP 调用，*http.Client 天然满足。
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Observer 接收缓存决策与回源结果，通常由 metrics 包实现。
type Observer interface {
	ObserveDecision(slot, decision string)
	ObserveFetch(slot string, elapsed time.Duration, err error)
}

// Options 描述 Cache 的外部依赖。Root 必填，其余缺省时使用默认实现。
type Options struct {
	Root     string
	Client   Doer
	Logger   logrus.FieldLogger
	Observer Observer
	Now      func() time.Time
}

// Cache 负责 “读磁盘 / 过期判断 / 回源写入” 的全部流程。
// 同名 slot 的并发调用不做协调，最后一次 rename 生效。
type Cache struct {
	root     string
	client   Doer
	logger   logrus.FieldLogger
	observer Observer
	now      func() time.Time

	created func(path string) (time.Time, error)
	rename  func(oldpath, newpath string) error
}

// NewCache 以 opts.Root 为缓存根目录构建实例，目录不存在时自动创建。
func NewCache(opts Options) (*Cache, error) {
	if opts.Root == "" {
		return nil, &Error{Kind: KindDirectory, Op: "resolve", Err: errors.New("cache root required")}
	}
	abs, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, &Error{Kind: KindDirectory, Op: "resolve", Path: opts.Root, Err: err}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, &Error{Kind: KindIO, Op: "mkdir", Path: abs, Err: err}
	}

	c := &Cache{
		root:     abs,
		client:   opts.Client,
		logger:   opts.Logger,
		observer: opts.Observer,
		now:      opts.Now,
		created:  fileCreationTime,
		rename:   os.Rename,
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	if c.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		c.logger = discard
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Root 返回缓存根目录的绝对路径。
func (c *Cache) Root() string {
	return c.root
}

// Slot 返回 filename 在当前根目录下对应的 slot。
func (c *Cache) Slot(filename string) (Slot, error) {
	return NewSlot(c.root, filename)
}

// Fetch 返回 filename 对应的 bootstrap 文件：新鲜且可解析时直接读盘，
// 缺失、过期或损坏时从 sourceURL 拉取一次并原子替换缓存。
func (c *Cache) Fetch(ctx context.Context, filename, sourceURL string) (*Document, error) {
	slot, err := c.Slot(filename)
	if err != nil {
		return nil, err
	}
	log := c.logger.WithFields(logrus.Fields{
		"slot":   slot.Name,
		"path":   slot.FinalPath,
		"source": sourceURL,
	})

	created, err := c.created(slot.FinalPath)
	if err != nil {
		if errors.Is(err, ErrCreationTimeUnavailable) {
			return nil, &Error{Kind: KindIO, Op: "stat", Path: slot.FinalPath, Err: err}
		}
		c.decide(log, slot, DecisionMiss)
		return c.write(ctx, log, slot, sourceURL)
	}

	if created.Add(FreshnessWindow).Before(c.now()) {
		c.decide(log.WithField("created", created), slot, DecisionStale)
		return c.write(ctx, log, slot, sourceURL)
	}

	doc, err := readCache(slot.FinalPath)
	if err != nil {
		log.WithError(err).Warn("cache_read_failed")
		c.decide(log, slot, DecisionRepair)
		return c.write(ctx, log, slot, sourceURL)
	}

	c.decide(log, slot, DecisionHit)
	return doc, nil
}

func (c *Cache) decide(log logrus.FieldLogger, slot Slot, decision string) {
	log.WithField("decision", decision).Debug("cache_decision")
	if c.observer != nil {
		c.observer.ObserveDecision(slot.Name, decision)
	}
}

// write 依次执行 GET → 解析 → 写暂存文件 → rename。解析先于落盘，
// 非法响应不会触碰现有缓存；rename 之前任何失败都保持最终路径不变。
func (c *Cache) write(ctx context.Context, log logrus.FieldLogger, slot Slot, sourceURL string) (*Document, error) {
	started := time.Now()
	doc, err := c.fetchAndCommit(ctx, slot, sourceURL)
	if c.observer != nil {
		c.observer.ObserveFetch(slot.Name, time.Since(started), err)
	}
	if err != nil {
		log.WithError(err).Warn("cache_write_failed")
		return nil, err
	}
	log.WithField("bytes", len(doc.Raw)).Info("cache_write")
	return doc, nil
}

func (c *Cache) fetchAndCommit(ctx context.Context, slot Slot, sourceURL string) (*Document, error) {
	body, err := c.download(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, &Error{Kind: KindParse, Op: "parse", Path: sourceURL, Err: err}
	}

	if err := c.commit(slot, body); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Cache) download(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: "fetch", Path: sourceURL, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: "fetch", Path: sourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindNetwork, Op: "fetch", Path: sourceURL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: "fetch", Path: sourceURL, Err: err}
	}
	return body, nil
}

// commit 写入暂存文件并 rename 到最终路径，rename 是唯一的提交点。
// 遗留的暂存文件先删除再新建，保证提交的条目拥有新的 inode 与创建时间。
func (c *Cache) commit(slot Slot, body []byte) error {
	if err := os.Remove(slot.TempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &Error{Kind: KindIO, Op: "write", Path: slot.TempPath, Err: err}
	}
	tmp, err := os.Create(slot.TempPath)
	if err != nil {
		return &Error{Kind: KindIO, Op: "write", Path: slot.TempPath, Err: err}
	}

	_, err = tmp.Write(body)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(slot.TempPath)
		return &Error{Kind: KindIO, Op: "write", Path: slot.TempPath, Err: err}
	}

	if err := c.rename(slot.TempPath, slot.FinalPath); err != nil {
		os.Remove(slot.TempPath)
		return &Error{Kind: KindIO, Op: "rename", Path: slot.FinalPath, Err: fmt.Errorf("renaming temporary cache file: %w", err)}
	}
	return nil
}

func readCache(path string) (*Document, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: "read", Path: path, Err: err}
	}
	doc, err := parseDocument(body)
	if err != nil {
		return nil, &Error{Kind: KindParse, Op: "parse", Path: path, Err: err}
	}
	return doc, nil
}
