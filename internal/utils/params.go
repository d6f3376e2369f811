package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageQuery is the shared page/limit query pair.
type PageQuery struct {
	Page  int `form:"page" json:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
}

// ParseIDParam reads a positive numeric path parameter. It writes a 422 and
// returns false when the value is not one.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnprocessableEntity, NewResponse(http.StatusUnprocessableEntity, "Invalid request parameters", ValidationErrorData{
			Errors: []ValidationErrorDetail{{
				Field:    name,
				Message:  "Field '" + name + "' must be a positive integer",
				Expected: "positive integer",
				Received: raw,
			}},
			Documentation: DocumentationLink,
		}))
		return 0, false
	}
	return uint(id), true
}

// Resolved applies the listing defaults: page 1, 10 items.
func (q PageQuery) Resolved() (page, limit int) {
	page, limit = q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
