package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/Ken-Miura/career-change-supporter-sub005/internal/errcode"

	"github.com/gin-gonic/gin"
)

// renderError turns a service error into the API response. Validation and
// domain-state codes become 400 with the machine-readable code; everything
// else is logged with full context and collapsed to the opaque 500.
func renderError(c *gin.Context, err error) {
	code := errcode.Decode(err)
	if code == errcode.UnexpectedErr {
		log.Printf("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": code.Code, "message": code.Message})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"code": code.Code, "message": code.Message})
}

// queryID parses a query parameter as an id. Anything that is not a positive
// integer is rejected with notPositive before any store access happens.
func queryID(c *gin.Context, name string, notPositive *errcode.Code) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		renderError(c, notPositive)
		return 0, false
	}
	return id, true
}
