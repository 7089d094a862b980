// util/helper/api.go
package helper

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// GetPaginationParams reads limit/offset query parameters with defaults.
func GetPaginationParams(c *gin.Context) (int, int, error) {
	limit := defaultLimit
	offset := 0

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
		limit = parsed
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, fmt.Errorf("invalid offset %q", raw)
		}
		offset = parsed
	}

	return limit, offset, nil
}
