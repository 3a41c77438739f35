package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"Bundespredict/internal/feed"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WsScoreboard streams the scoreboard to the browser, starting with the
// current board and then after every finished game.
func (h *Handler) WsScoreboard(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	sub := h.Feed.Join()
	defer h.Feed.Leave(sub)

	entries, err := h.Scoreboard.Load(c.Request.Context())
	if err != nil {
		slog.Error("Error loading scoreboard for websocket", "error", err)
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "scoreboard unavailable"), time.Now().Add(writeWait))
		return
	}
	if err := writeMessage(conn, feed.Message{Type: "scoreboard", Entries: entries}); err != nil {
		return
	}

	// the browser never sends anything; reading only surfaces the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Info("Scoreboard websocket closed", "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.MsgChan:
			if !ok {
				return
			}
			if err := writeMessage(conn, msg); err != nil {
				slog.Info("Write error on scoreboard websocket", "error", err)
				return
			}
		case <-closed:
			return
		}
	}
}

func writeMessage(conn *websocket.Conn, msg feed.Message) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
