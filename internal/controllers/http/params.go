package http

import (
	"eshop/internal/domain"
	"strconv"

	"github.com/gin-gonic/gin"
)

// uintParam parses a positive integer path parameter.
func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		respondError(c, domain.NewValidationError(name+" must be a positive integer.", map[string]any{name: raw}))
		return 0, false
	}
	return uint(n), true
}

func intParam(c *gin.Context, name string) (int, bool) {
	raw := c.Param(name)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		respondError(c, domain.NewValidationError(name+" must be a positive integer.", map[string]any{name: raw}))
		return 0, false
	}
	return n, true
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
