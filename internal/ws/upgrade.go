package ws

import (
	"log"
	"net/http"
	"time"

	"venus/config"
	"venus/internal/auth"
	"venus/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GenderLookup resolves the viewer's profile gender; an error means no profile yet.
type GenderLookup func(userID string) (domain.Gender, error)

// UpgradeMapWS upgrades the connection for the map channel. The token comes from ?token=.
func UpgradeMapWS(cfg *config.JWTConfig, mapHub *MapHub, lookup GenderLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		var gender domain.Gender
		if lookup != nil {
			if g, err := lookup(claims.UserID); err == nil {
				gender = g
			}
		}
		client := &Client{
			UserID: claims.UserID,
			Gender: gender,
			Send:   make(chan []byte, 256),
		}
		mapHub.Register(client)
		defer client.Close()
		log.Printf("[ws] map viewer %s connected (%d online)", claims.UserID, mapHub.ClientCount())

		// initial load, written before the pump starts
		if err := conn.WriteJSON(gin.H{"type": "markers", "markers": mapHub.Markers(gender)}); err != nil {
			return
		}
		go writePump(client, conn)
		readPump(conn)
	}
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn) {
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
