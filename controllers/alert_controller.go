package controllers

import (
	"errors"
	"io"
	"net/http"

	"rightssphere/models"
	"rightssphere/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AlertController struct {
	Alerts *services.AlertService
	log    *zap.Logger
}

func NewAlertController(alerts *services.AlertService, log *zap.Logger) *AlertController {
	return &AlertController{Alerts: alerts, log: log}
}

type sendAlertReq struct {
	UserID        string           `json:"userId"`
	Location      models.Location  `json:"location"`
	Contacts      []models.Contact `json:"contacts"`
	CustomMessage string           `json:"customMessage"`
	AlertType     string           `json:"alertType"`
}

func (ac *AlertController) Send(c *gin.Context) {
	var req sendAlertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			badRequest(c, "User ID and location are required")
			return
		}
		badRequest(c, "Invalid request body")
		return
	}

	res, err := ac.Alerts.Send(c.Request.Context(), services.SendAlertInput{
		UserID:        req.UserID,
		Location:      req.Location,
		Contacts:      req.Contacts,
		CustomMessage: req.CustomMessage,
		AlertType:     req.AlertType,
	})
	if err != nil {
		respondError(c, ac.log, err, "Failed to save alert")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"alert":     res.Alert,
		"results":   res.Results,
		"sentCount": res.SentCount,
	})
}

func (ac *AlertController) List(c *gin.Context) {
	alerts, err := ac.Alerts.ListByUser(c.Request.Context(), c.Query("userId"))
	if err != nil {
		respondError(c, ac.log, err, "Failed to fetch alerts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "alerts": alerts})
}
