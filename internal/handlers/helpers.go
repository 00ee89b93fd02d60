package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// tolerant of the value type the middleware stashed (int / int64 / float64 / string)
func getInt64FromCtx(c *gin.Context, key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserID(c *gin.Context) (int64, bool) {
	return getInt64FromCtx(c, "user_id")
}
