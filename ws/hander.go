package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/ai-learning-journal/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // chỉ để phát triển, nên giới hạn ở production
	},
}

// HandleJournalWebSocket: kênh riêng của user, nhận tín hiệu danh sách journal thay đổi
func HandleJournalWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	userID := claims.UserID
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Log.Warn("websocket upgrade failed", "error", err)
		return
	}
	utils.Log.Debug("journal ws connected", "user_id", userID)

	client := H.Register(userID, conn)
	go H.writePump(client)
	H.Deliver(Event{Type: "connected", UserID: userID})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	H.Unregister(userID, conn)
	utils.Log.Debug("journal ws disconnected", "user_id", userID)
}
