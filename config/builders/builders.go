// Package builders 在 init 中注册内置 Node 的配置构建器。
// 入口处 import _ "github.com/cinekit/cinekit/config/builders" 即可启用配置驱动。
package builders

import (
	"fmt"
	"time"

	"github.com/cinekit/cinekit/config"
	"github.com/cinekit/cinekit/filter"
	"github.com/cinekit/cinekit/pipeline"
	"github.com/cinekit/cinekit/pkg/conv"
	"github.com/cinekit/cinekit/recall"
	"github.com/cinekit/cinekit/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.sort", BuildSortNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("recall.toprated", buildNeedsRuntime("recall.toprated"))
	config.Register("recall.content", buildNeedsRuntime("recall.content"))
	config.Register("recall.collaborative", buildNeedsRuntime("recall.collaborative"))
	config.Register("recall.hybrid", buildNeedsRuntime("recall.hybrid"))
}

func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "rated":
			filters = append(filters, filter.NewRatedFilter())
		case "dsl":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("dsl filter requires expr")
			}
			filters = append(filters, filter.NewDSLFilter(expr))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func BuildSortNode(cfg map[string]any) (pipeline.Node, error) {
	// Catalog 是运行期依赖，配置驱动构建的 SortNode 平局按 ID 裁决
	return &rerank.SortNode{}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 10)}, nil
}

func BuildFanoutNode(cfg map[string]any) (pipeline.Node, error) {
	// 召回源都依赖运行期对象（目录、模型、偏好存储），无法单从配置构建；
	// 这里只构建骨架，Sources 由调用方注入。
	fanout := &recall.Fanout{
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", ""),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = n
	}
	return fanout, nil
}

// buildNeedsRuntime 覆盖依赖运行期对象的召回源：注册后类型校验可通过，
// 真正构建时给出明确指引。
func buildNeedsRuntime(typeName string) config.NodeBuilder {
	return func(map[string]any) (pipeline.Node, error) {
		return nil, fmt.Errorf(
			"%s requires runtime dependencies (catalog, model, preference store); construct it via engine.New or directly",
			typeName,
		)
	}
}
