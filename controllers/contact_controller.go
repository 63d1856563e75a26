package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"rightssphere/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FarcasterDirectory looks up Farcaster users and casts.
type FarcasterDirectory interface {
	SearchUsers(ctx context.Context, query string) ([]map[string]any, error)
	UserProfile(ctx context.Context, fid int64) (map[string]any, error)
	GetCast(ctx context.Context, hash string) (*services.Cast, error)
}

type ContactController struct {
	Directory FarcasterDirectory
	log       *zap.Logger
}

func NewContactController(dir FarcasterDirectory, log *zap.Logger) *ContactController {
	return &ContactController{Directory: dir, log: log}
}

func (cc *ContactController) SearchFarcaster(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		badRequest(c, "Search query is required")
		return
	}
	users, err := cc.Directory.SearchUsers(c.Request.Context(), q)
	if err != nil {
		cc.upstreamError(c, err, "Failed to search users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (cc *ContactController) FarcasterProfile(c *gin.Context) {
	fid, err := strconv.ParseInt(c.Param("fid"), 10, 64)
	if err != nil || fid <= 0 {
		badRequest(c, "Invalid fid")
		return
	}
	user, err := cc.Directory.UserProfile(c.Request.Context(), fid)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		cc.upstreamError(c, err, "Failed to fetch user profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (cc *ContactController) FarcasterCast(c *gin.Context) {
	hash := strings.TrimSpace(c.Param("hash"))
	if hash == "" {
		badRequest(c, "Cast hash is required")
		return
	}
	cast, err := cc.Directory.GetCast(c.Request.Context(), hash)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cast not found"})
		return
	}
	if err != nil {
		cc.upstreamError(c, err, "Failed to fetch cast")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cast": cast})
}

func (cc *ContactController) upstreamError(c *gin.Context, err error, msg string) {
	if errors.Is(err, services.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Farcaster is not configured"})
		return
	}
	respondError(c, cc.log, err, msg)
}
