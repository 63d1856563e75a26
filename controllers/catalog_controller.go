package controllers

import (
	"net/http"

	"rightssphere/catalog"

	"github.com/gin-gonic/gin"
)

func GetCatalog(c *gin.Context) {
	cat := catalog.Default()
	c.JSON(http.StatusOK, gin.H{
		"states":            cat.States,
		"scenarios":         cat.Scenarios,
		"emergencyTemplate": cat.EmergencyTemplate,
		"sampleGuides":      cat.SampleGuides,
	})
}
