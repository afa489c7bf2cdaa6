package contracts

import (
	"context"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
)

type ICodeAnalyzer interface {
	GenerateDigest(ctx context.Context, root string, config models.ScanConfiguration) (*models.Digest, error)
	RenderTree(ctx context.Context, root string, config models.ScanConfiguration) (string, error)
	GetCacheStats() (*models.CacheStats, error)
	ClearCache() error
}
