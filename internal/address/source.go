package address

import "context"

// Source lists the places under a parent. Regions have no parent code.
type Source interface {
	List(ctx context.Context, level Level, parentCode string) ([]Place, error)
}
