package controllers

import (
	"net/http"

	"rightssphere/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScriptController struct {
	Scripts *services.ScriptService
	log     *zap.Logger
}

func NewScriptController(scripts *services.ScriptService, log *zap.Logger) *ScriptController {
	return &ScriptController{Scripts: scripts, log: log}
}

type generateScriptReq struct {
	Scenario   string `json:"scenario"`
	Language   string `json:"language"`
	State      string `json:"state"`
	IsAdvanced bool   `json:"isAdvanced"`
}

func (sc *ScriptController) Generate(c *gin.Context) {
	var req generateScriptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Scenario is required")
		return
	}
	script, err := sc.Scripts.Generate(c.Request.Context(), services.ScriptParams{
		Scenario:   req.Scenario,
		Language:   req.Language,
		State:      req.State,
		IsAdvanced: req.IsAdvanced,
	})
	if err != nil {
		respondError(c, sc.log, err, "Failed to generate script")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "script": script})
}

func (sc *ScriptController) List(c *gin.Context) {
	scripts, err := sc.Scripts.List(c.Request.Context(), c.Query("scenario"), c.Query("language"))
	if err != nil {
		respondError(c, sc.log, err, "Failed to fetch scripts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "scripts": scripts})
}
