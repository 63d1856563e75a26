package controllers

import (
	"encoding/json"
	"net/http"

	"rightssphere/models"
	"rightssphere/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxRecordingBytes bounds the multipart form kept in memory.
const maxRecordingBytes = 32 << 20

type RecordingController struct {
	Recordings *services.RecordingService
	log        *zap.Logger
}

func NewRecordingController(recordings *services.RecordingService, log *zap.Logger) *RecordingController {
	return &RecordingController{Recordings: recordings, log: log}
}

func (rc *RecordingController) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxRecordingBytes); err != nil {
		badRequest(c, "Recording file and user ID are required")
		return
	}
	fh, err := c.FormFile("recording")
	userID := c.PostForm("userId")
	if err != nil || userID == "" {
		badRequest(c, "Recording file and user ID are required")
		return
	}

	var loc models.Location
	if raw := c.PostForm("location"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &loc); err != nil {
			badRequest(c, "Invalid location JSON")
			return
		}
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, rc.log, err, "Failed to upload recording")
		return
	}
	defer f.Close()

	res, err := rc.Recordings.Upload(c.Request.Context(), services.UploadRecordingInput{
		UserID:      userID,
		Location:    loc,
		Notes:       c.PostForm("notes"),
		ContentType: fh.Header.Get("Content-Type"),
		Content:     f,
	})
	if err != nil {
		respondError(c, rc.log, err, "Failed to upload recording")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"log":      res.Log,
		"ipfsHash": res.IPFSHash,
		"ipfsUrl":  res.IPFSURL,
	})
}

func (rc *RecordingController) List(c *gin.Context) {
	logs, err := rc.Recordings.ListByUser(c.Request.Context(), c.Query("userId"))
	if err != nil {
		respondError(c, rc.log, err, "Failed to fetch recordings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs})
}
