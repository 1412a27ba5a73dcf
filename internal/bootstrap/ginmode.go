package bootstrap

import (
	"strings"

	"github.com/gin-gonic/gin"
)

var ginModes = map[string]string{
	"production": gin.ReleaseMode,
	"prod":       gin.ReleaseMode,
	"staging":    gin.ReleaseMode,
	"test":       gin.TestMode,
	"testing":    gin.TestMode,
}

// SetGinMode maps APP_ENV onto a gin mode; unknown environments run in debug.
func SetGinMode(env string) {
	mode, ok := ginModes[strings.ToLower(strings.TrimSpace(env))]
	if !ok {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)
}
