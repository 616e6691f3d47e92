package payment

import "github.com/gin-gonic/gin"

type IHandler interface {
	Get(c *gin.Context)
	Forward(c *gin.Context)
	Retry(c *gin.Context)
	BatchForward(c *gin.Context)
}
