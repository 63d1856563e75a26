package controllers

import (
	"errors"
	"net/http"

	"rightssphere/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GuideController struct {
	Guides *services.GuideService
	log    *zap.Logger
}

func NewGuideController(guides *services.GuideService, log *zap.Logger) *GuideController {
	return &GuideController{Guides: guides, log: log}
}

type generateGuideReq struct {
	State    string `json:"state"`
	Language string `json:"language"`
	Scenario string `json:"scenario"`
}

func (gc *GuideController) Generate(c *gin.Context) {
	var req generateGuideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "State is required")
		return
	}
	guide, err := gc.Guides.Generate(c.Request.Context(), services.GuideParams{
		State:    req.State,
		Language: req.Language,
		Scenario: req.Scenario,
	})
	if err != nil {
		respondError(c, gc.log, err, "Failed to generate legal guide")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "guide": guide})
}

func (gc *GuideController) Get(c *gin.Context) {
	guide, err := gc.Guides.Get(c.Request.Context(), c.Query("state"), c.DefaultQuery("language", "en"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
		return
	}
	if err != nil {
		respondError(c, gc.log, err, "Failed to fetch legal guide")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "guide": guide})
}
