// Package resolver maps caller-supplied item references to canonical ids.
//
// 调用方（前端或手工调试）可能用规范 id、标题、分类甚至标签来引用一个
// 内容条目。解析按固定顺序尝试，第一条命中即返回。
package resolver

import (
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/logger"
	"github.com/ashiknm/dsa-backend/pkg/models"
)

// Status 解析结果状态
type Status int

const (
	// StatusFound 解析成功，Resolution.ID 为规范 id
	StatusFound Status = iota
	// StatusNotFound 所有规则都未命中
	StatusNotFound
	// StatusLookupFailed 查询存储时出错，与"不存在"区分开，
	// 由调用方决定当作可重试还是终止
	StatusLookupFailed
)

// Resolution 带标签的解析结果
type Resolution struct {
	Status Status
	ID     string
	Err    error // 仅 StatusLookupFailed 时非空
}

// canonicalIDPattern 规范 id 的文本形式：8-4-4-4-12 的十六进制分组，
// 版本位 1-5，变体位 [89ab]
var canonicalIDPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsCanonicalID 判断引用是否已经是规范 id 的文本形式
func IsCanonicalID(reference string) bool {
	return canonicalIDPattern.MatchString(reference)
}

// Resolver 标识解析器
type Resolver struct {
	store database.Store
}

// New 创建标识解析器
func New(store database.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve 将引用解析为规范 id，规则按序尝试，先命中先返回：
//  1. 引用本身是规范 id 形式：原样返回，不查存储也不校验存在性
//     （规范 id 自描述，存在性由后续操作自己决定）
//  2. 标题精确匹配（大小写不敏感）
//  3. 宽松匹配：标题/分类子串或标签精确元素
//
// 多条命中时取 id 字典序第一条；该平局顺序可复现但不属于对外承诺。
func (r *Resolver) Resolve(reference string, itemType models.ItemType) Resolution {
	if IsCanonicalID(reference) {
		return Resolution{Status: StatusFound, ID: reference}
	}

	id, err := r.store.FindContentIDByTitle(itemType, reference)
	if err == nil {
		return Resolution{Status: StatusFound, ID: id}
	}
	if !errors.Is(err, database.ErrNotFound) {
		logger.L().Warn("resolver title lookup failed",
			zap.String("reference", reference),
			zap.String("item_type", string(itemType)),
			zap.Error(err))
		return Resolution{Status: StatusLookupFailed, Err: err}
	}

	id, err = r.store.FindContentIDByText(itemType, reference)
	if err == nil {
		return Resolution{Status: StatusFound, ID: id}
	}
	if !errors.Is(err, database.ErrNotFound) {
		logger.L().Warn("resolver text lookup failed",
			zap.String("reference", reference),
			zap.String("item_type", string(itemType)),
			zap.Error(err))
		return Resolution{Status: StatusLookupFailed, Err: err}
	}

	return Resolution{Status: StatusNotFound}
}
