package router

import "github.com/gin-gonic/gin"

// Module registers its routes on the registry's base group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
