// Package cinekit 是一个电影推荐工具包（Cinema Recommender Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank）
// - 策略即召回源: content / collaborative / hybrid 三种策略都是 recall.Source
// - 排除规则结构化: 已评价物品由 filter.RatedFilter 统一剔除，策略内部的哨兵分数不会泄漏到输出
// - Labels-first: labels 全链路透传，支持 explain / 观测
package cinekit

import "github.com/cinekit/cinekit/pipeline"

// 轻量 facade：便于用户直接 import "cinekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
