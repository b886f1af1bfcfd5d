package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Catalog 错误：NOT_FOUND
//   - Model 错误：EMPTY_CORPUS, NOT_FITTED
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - Recall 错误：INVALID_INPUT
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "NOT_FITTED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "model", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"     // 资源不存在
	ErrorCodeNotFitted     = "NOT_FITTED"    // 未 fit 先打分（调用方编程错误）
	ErrorCodeEmptyCorpus   = "EMPTY_CORPUS"  // 空目录无法 fit
	ErrorCodeNotSupported  = "NOT_SUPPORTED" // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT" // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR"
)

// 模块名称常量
const (
	ModuleCatalog = "catalog" // 目录模块
	ModuleModel   = "model"   // 模型模块
	ModuleStore   = "store"   // 存储模块
	ModuleRecall  = "recall"  // 召回模块
)

// 领域错误定义
var (
	// ErrEmptyCorpus 表示对空目录调用 fit（致命：无物品可向量化）
	ErrEmptyCorpus = NewDomainError(ModuleModel, ErrorCodeEmptyCorpus, "model: cannot fit an empty corpus")

	// ErrNotFitted 表示在 fit 之前调用打分操作（编程错误，向上暴露不吞掉）
	ErrNotFitted = NewDomainError(ModuleModel, ErrorCodeNotFitted, "model: recommender is not fitted")

	// ErrMovieNotFound 表示按 ID 请求完整电影记录但目录中不存在。
	// 注意：打分过程中的未知 ID 静默跳过，只有显式取记录才会返回此错误。
	ErrMovieNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: movie not found")

	// ErrInvalidWeights 表示混合推荐的权重配置非法（负数权重）。
	ErrInvalidWeights = NewDomainError(ModuleRecall, ErrorCodeInvalidInput, "recall: hybrid weights must be non-negative")

	// ErrInvalidMode 表示未知的推荐模式
	ErrInvalidMode = NewDomainError(ModuleRecall, ErrorCodeInvalidInput, "recall: unknown recommendation mode")
)

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotFitted 检查错误是否为 NOT_FITTED
func IsNotFitted(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFitted
	}
	return false
}

// IsEmptyCorpus 检查错误是否为 EMPTY_CORPUS
func IsEmptyCorpus(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeEmptyCorpus
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}
