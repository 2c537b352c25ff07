// internal/handlers/room_handler.go

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"virtualroom/internal/db"
	"virtualroom/internal/logger"
	"virtualroom/internal/service"
	"virtualroom/internal/types"
)

const (
	MsgMissingRoom   = "Please pass a room name on the query string or in the header"
	MsgFailedRequest = "Failed to process request"
)

// RoomProcessor 处理单个房间的指令
type RoomProcessor interface {
	Process(ctx context.Context, roomID string, cmd types.Command) (*db.RoomConfig, error)
	Ping(ctx context.Context) error
}

type RoomHandler struct {
	rooms RoomProcessor
}

func NewRoomHandler(rooms RoomProcessor) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// roomFromRequest 优先读取 header，其次 query
func roomFromRequest(c *gin.Context) string {
	if room := c.GetHeader("room"); room != "" {
		return room
	}
	return c.Query("room")
}

// Handle 读取房间配置并执行 query 中的指令
func (h *RoomHandler) Handle(c *gin.Context) {
	roomID := roomFromRequest(c)
	cmd := types.NewCommand(
		c.Query("operation"),
		c.Query("item"),
		c.Query("instance"),
		c.Query("value"),
	)

	room, err := h.rooms.Process(c.Request.Context(), roomID, cmd)
	if err != nil {
		if errors.Is(err, service.ErrMissingRoom) {
			c.String(http.StatusBadRequest, MsgMissingRoom)
			return
		}
		logger.Error("room request failed: %v", err)
		c.String(http.StatusBadRequest, MsgFailedRequest)
		return
	}

	c.IndentedJSON(http.StatusOK, room)
}

// Health 检查存储是否可用
func (h *RoomHandler) Health(c *gin.Context) {
	if err := h.rooms.Ping(c.Request.Context()); err != nil {
		logger.Warn("health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, Response{
			Code: http.StatusServiceUnavailable,
			Msg:  "store unavailable",
			Err:  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, Response{
		Code: http.StatusOK,
		Msg:  "ok",
	})
}
