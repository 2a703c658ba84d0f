package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imcbsglobal/task-webapp-backend/internal/apperrors"
)

// respondError is the single place service errors become HTTP. Validation
// and not-found map to 4xx with their message; store failures are logged
// with cause and answered generically.
func respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": apperrors.Message(err)})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": apperrors.Message(err)})
	case apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": apperrors.Message(err)})
	case apperrors.IsStore(err):
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": apperrors.Message(err)})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}

// flexString accepts both JSON strings and numbers; the legacy mobile
// clients send coordinates either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*f = flexString(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*f = flexString(number.String())
	return nil
}

func (f flexString) String() string { return string(f) }
