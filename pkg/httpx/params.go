package httpx

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClampInt — ограничение значения v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseLimit — читает limit из query и зажимает его в [1, maxLimit].
// ok=false, если параметра нет или он не число: вызывающий отдаёт полный список.
func ParseLimit(c *gin.Context, maxLimit int) (limit int, ok bool) {
	raw, present := c.GetQuery("limit")
	if !present {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return ClampInt(v, 1, maxLimit), true
}
