package pkgrouter

import (
	"context"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// GetParam returns the named path parameter stored by httprouter, trimmed of
// surrounding whitespace. It is "" when the route has no such parameter.
func GetParam(ctx context.Context, key string) string {
	params := httprouter.ParamsFromContext(ctx)
	if params == nil {
		return ""
	}
	return strings.TrimSpace(params.ByName(key))
}
