package apperr

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Respond writes err as {"error": message}. Unknown errors become a 500 and are logged.
// Bare binding errors from validator are treated as malformed input.
func Respond(c *gin.Context, err error) {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindInternal {
			log.Printf("[http] %s %s: %v", c.Request.Method, c.FullPath(), e)
		}
		c.JSON(e.Kind.HTTPStatus(), gin.H{"error": e.Message})
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(KindFormat.HTTPStatus(), gin.H{"error": verrs.Error()})
		return
	}
	log.Printf("[http] %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(KindInternal.HTTPStatus(), gin.H{"error": "internal server error"})
}
