package controllers

import (
	"net/http"

	"rightssphere/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RightsCardController struct {
	Cards *services.RightsCardService
	log   *zap.Logger
}

func NewRightsCardController(cards *services.RightsCardService, log *zap.Logger) *RightsCardController {
	return &RightsCardController{Cards: cards, log: log}
}

type createCardReq struct {
	State            string `json:"state"`
	Scenario         string `json:"scenario"`
	Language         string `json:"language"`
	ShareOnFarcaster bool   `json:"shareOnFarcaster"`
}

func (rc *RightsCardController) Create(c *gin.Context) {
	var req createCardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "State is required")
		return
	}
	res, err := rc.Cards.Create(c.Request.Context(), services.CreateCardInput{
		State:            req.State,
		Scenario:         req.Scenario,
		Language:         req.Language,
		ShareOnFarcaster: req.ShareOnFarcaster,
	})
	if err != nil {
		respondError(c, rc.log, err, "Failed to create rights card")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"rightsCard":      res.Card,
		"ipfsHash":        res.Card.IPFSHash,
		"ipfsUrl":         res.Card.IPFSURL,
		"shareableUrl":    res.Card.ShareableURL,
		"farcasterResult": res.Share,
	})
}

func (rc *RightsCardController) Get(c *gin.Context) {
	url, card, err := rc.Cards.Lookup(c.Request.Context(), c.Query("hash"))
	if err != nil {
		respondError(c, rc.log, err, "Failed to fetch rights card")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"ipfsHash":   c.Query("hash"),
		"ipfsUrl":    url,
		"rightsCard": card,
	})
}
