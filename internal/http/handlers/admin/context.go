package admin

import (
	handlershared "github.com/userdesk/internal/http/handlers/shared"
	"github.com/userdesk/internal/models"

	"github.com/gin-gonic/gin"
)

func getActor(c *gin.Context) (*models.User, bool) {
	return handlershared.GetAuthUser(c)
}
