package router

import "github.com/gin-gonic/gin"

// Module is a feature that adds its routes to the site root group.
type Module interface {
	Register(root *gin.RouterGroup)
}
