package handler

import (
	"errors"
	"net/http"

	"msgboard/internal/storage"
	board_errors "msgboard/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Static streams assets for /static/*filepath from the configured store.
func Static(store storage.AssetStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj, err := store.Open(c.Request.Context(), c.Param("filepath"))
		if err != nil {
			if errors.Is(err, board_errors.ErrNotFound) {
				c.Status(http.StatusNotFound)
				return
			}
			_ = c.Error(err)
			return
		}
		defer obj.Body.Close()

		c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, nil)
	}
}
