package fusegate

import "github.com/kailas-cloud/fusegate/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery              = domain.ErrInvalidQuery
	ErrRetrieval                 = domain.ErrRetrieval
	ErrRateLimited               = domain.ErrRateLimited
	ErrEmbeddingProviderError    = domain.ErrEmbeddingProviderError
	ErrKeywordSearchNotSupported = domain.ErrKeywordSearchNotSupported
	ErrVectorDimMismatch         = domain.ErrVectorDimMismatch
	ErrCircuitOpen               = domain.ErrCircuitOpen
)
