package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/joinus-devs/backend-sub000/internal/store"
)

// maxHistoryPageSize caps the limit query parameter.
const maxHistoryPageSize = 100

// ChatHandlers serves the chat history read boundary.
type ChatHandlers struct {
	store    store.Store
	pageSize int
	log      *zerolog.Logger
}

// NewChatHandlers creates a new chat handlers instance. pageSize is the
// default history page size used when the limit query parameter is absent.
func NewChatHandlers(st store.Store, pageSize int, logger *zerolog.Logger) *ChatHandlers {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ChatHandlers{
		store:    st,
		pageSize: pageSize,
		log:      logger,
	}
}

// ChatMessageResponse represents one history row in API responses.
type ChatMessageResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	ClubID    int64  `json:"club_id"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// HistoryResponse is one cursor-paginated history page. Next is null when no
// older messages remain.
type HistoryResponse struct {
	Data []ChatMessageResponse `json:"data"`
	Next *int64                `json:"next"`
}

// GetClubChats returns a club's chat history, newest first.
// GET /api/clubs/:club/chats?cursor=&limit=
func (h *ChatHandlers) GetClubChats(c *gin.Context) {
	clubID, err := strconv.ParseInt(c.Param("club"), 10, 64)
	if err != nil || clubID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid club id"})
		return
	}

	var cursor *int64
	if raw := c.Query("cursor"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid cursor"})
			return
		}
		cursor = &v
	}

	limit := h.pageSize
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > maxHistoryPageSize {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = v
	}

	ctx := c.Request.Context()

	if _, err := h.store.GetClubByID(ctx, clubID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "club not found"})
			return
		}
		h.log.Error().Err(err).Int64("club_id", clubID).Msg("get club")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	messages, next, err := h.store.ListClubMessages(ctx, clubID, cursor, limit)
	if err != nil {
		h.log.Error().Err(err).Int64("club_id", clubID).Msg("list club messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	data := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		data = append(data, ChatMessageResponse{
			ID:        m.ID,
			UserID:    m.UserID,
			ClubID:    m.ClubID,
			Message:   m.Message,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, HistoryResponse{Data: data, Next: next})
}
