package controllers

import (
	"net/http"
	"time"

	"rightssphere/services"
	"rightssphere/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const pingInterval = 25 * time.Second

type RealtimeController struct {
	RT        *services.RealtimeHub
	jwtSecret string
}

// NewRealtimeController serves alert streams. With a non-empty jwtSecret the
// stream requires ?token=; otherwise ?userId= names the user.
func NewRealtimeController(rt *services.RealtimeHub, jwtSecret string) *RealtimeController {
	return &RealtimeController{RT: rt, jwtSecret: jwtSecret}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AlertsWS streams alert events for one user. Browsers cannot set headers
// on the handshake, so the token travels in the query string.
func (rc *RealtimeController) AlertsWS(c *gin.Context) {
	var uid string
	if rc.jwtSecret != "" {
		tok := c.Query("token")
		if tok == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		id, err := utils.ParseJWT(rc.jwtSecret, tok)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		uid = id
	} else {
		uid = c.Query("userId")
	}
	if uid == "" {
		badRequest(c, "User ID is required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{UserID: uid, Conn: conn}
	rc.RT.Register(cl)

	done := make(chan struct{})
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := cl.Ping(); err != nil {
					rc.RT.Unregister(cl)
					return
				}
			}
		}
	}()

	// read loop ends on client close/error → unregister
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			close(done)
			rc.RT.Unregister(cl)
			return
		}
	}
}
