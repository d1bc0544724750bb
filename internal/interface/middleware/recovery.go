package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-management/pkg/helpers"
)

// Recovery logs any panic in the handler chain and answers with a bare 500.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		helpers.RequestEntry(logger, c).WithField("panic", recovered).Error("server error")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		c.Abort()
	})
}
