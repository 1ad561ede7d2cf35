package handler

import (
	"net/http"

	"msgboard/internal/middleware"
	"msgboard/internal/services"
	"msgboard/internal/transport/httpdto"
	board_errors "msgboard/pkg/errors"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewMessagesResponse(items)))
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req httpdto.CreateMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	msg, err := h.service.Create(c.Request.Context(), middleware.SessionFrom(c), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.NewMessageDTO(msg)))
}

func (h *MessageHandler) GetByID(c *gin.Context) {
	msg, err := h.service.Get(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewMessageDTO(msg)))
}

func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.SessionFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Update answers PUT/PATCH. Messages are never edited in place.
func (h *MessageHandler) Update(c *gin.Context) {
	writeError(c, board_errors.ErrNotUpdatable)
}
