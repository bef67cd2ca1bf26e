package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError writes {"error": msg}; server errors are logged with their cause
func respondError(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		_ = c.Error(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
		}
	}
	c.JSON(status, gin.H{"error": msg})
}

// respondInvalid 400 carrying the validation message in "details"
func respondInvalid(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": err.Error()})
}
