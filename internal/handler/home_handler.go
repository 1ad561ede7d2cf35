package handler

import (
	"net/http"

	"msgboard/internal/middleware"
	"msgboard/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// Home renders the landing page data: the session user, or null.
func Home(feedScope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := httpdto.HomeResponse{FeedScope: feedScope}
		if sess := middleware.SessionFrom(c); !sess.IsAnonymous() {
			res.User = &httpdto.SessionUserDTO{ID: sess.UserID, Username: sess.Username}
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(res))
	}
}
