package read

import (
	"context"

	"github.com/skran-dev/sphindex/internal/domain/result"
	"github.com/skran-dev/sphindex/internal/translate"
)

// Repository defines the engine contract for read operations.
type Repository interface {
	Search(ctx context.Context, indexes []string, t *translate.Translation) (*result.Set, error)
}
