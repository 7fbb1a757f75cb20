// Package source 维护 bootstrap 源（名称 → 缓存文件名 + 上游 URL）的只读注册表，
// CLI 与 HTTP 层都通过它把用户输入的名称翻译成 bootstrap.Request。
package source

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hle0/rdap-bootstrap/internal/bootstrap"
	"github.com/hle0/rdap-bootstrap/internal/config"
)

// IANABaseURL 是 IANA 发布 RDAP bootstrap 文件的位置。
const IANABaseURL = "https://data.iana.org/rdap/"

// Source 描述一个 bootstrap 文件。
type Source struct {
	Name string `json:"name"`
	File string `json:"file"`
	URL  string `json:"url"`
}

// Request 转换为 bootstrap 包的批量请求项。
func (s Source) Request() bootstrap.Request {
	return bootstrap.Request{File: s.File, URL: s.URL}
}

// Defaults 返回 IANA 发布的五个 bootstrap 文件，配置未声明任何源时使用。
func Defaults() []Source {
	names := []string{"asn", "dns", "ipv4", "ipv6", "object-tags"}
	result := make([]Source, len(names))
	for i, name := range names {
		result[i] = Source{
			Name: name,
			File: name + ".json",
			URL:  IANABaseURL + name + ".json",
		}
	}
	return result
}

// Registry 提供按名称查找与有序遍历。构建后只读，可被多个 goroutine 共享。
type Registry struct {
	byName  map[string]Source
	ordered []Source
}

// NewRegistry 根据配置构建注册表；配置中没有源时回退到 Defaults。
func NewRegistry(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	sources := Defaults()
	if len(cfg.Sources) > 0 {
		sources = make([]Source, 0, len(cfg.Sources))
		for _, sc := range cfg.Sources {
			sources = append(sources, Source{Name: sc.Name, File: sc.File, URL: sc.URL})
		}
	}

	registry := &Registry{byName: make(map[string]Source, len(sources))}
	for _, src := range sources {
		key := normalizeName(src.Name)
		if key == "" {
			return nil, errors.New("source name is required")
		}
		if _, exists := registry.byName[key]; exists {
			return nil, fmt.Errorf("duplicate source %s", key)
		}
		if err := bootstrap.ValidateSlotName(src.File); err != nil {
			return nil, fmt.Errorf("source %s: %w", key, err)
		}
		src.Name = key
		registry.byName[key] = src
		registry.ordered = append(registry.ordered, src)
	}
	sort.SliceStable(registry.ordered, func(i, j int) bool {
		return registry.ordered[i].Name < registry.ordered[j].Name
	})
	return registry, nil
}

// Lookup 按名称（大小写不敏感）查找源，也接受带 .json 后缀的文件名。
func (r *Registry) Lookup(name string) (Source, bool) {
	key := normalizeName(name)
	if src, ok := r.byName[key]; ok {
		return src, true
	}
	for _, src := range r.ordered {
		if src.File == strings.TrimSpace(name) {
			return src, true
		}
	}
	return Source{}, false
}

// List 返回按名称排序的源列表副本。
func (r *Registry) List() []Source {
	result := make([]Source, len(r.ordered))
	copy(result, r.ordered)
	return result
}

// Requests 返回所有源对应的批量请求。
func (r *Registry) Requests() []bootstrap.Request {
	result := make([]bootstrap.Request, len(r.ordered))
	for i, src := range r.ordered {
		result[i] = src.Request()
	}
	return result
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
