package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castcall/castcall/internal/apperrors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithAppError maps a service error onto its HTTP status. Anything
// that is not an AppError is reported as a generic 500 so storage errors
// never leak through the boundary.
func RespondWithAppError(c *gin.Context, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		c.JSON(appErr.Code, ErrorResponse{
			Error:   string(appErr.Type),
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   string(apperrors.ErrorTypeInternal),
		Message: "Something went wrong.",
	})
}
