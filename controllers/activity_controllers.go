package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restopos/backend/services"
	"github.com/restopos/backend/utils"
)

type ActivityController struct {
	Activity *services.ActivityService
}

func NewActivityController(db *gorm.DB) *ActivityController {
	return &ActivityController{Activity: services.NewActivityService(db)}
}

// GetActivity -> GET /activity?limit=
func (ac *ActivityController) GetActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := ac.Activity.Recent(limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Activity log", entries)
}
