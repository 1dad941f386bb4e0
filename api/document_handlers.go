package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DocumentHandler serves rendered passages. Selectors follow the
// navigation view: ref for one subtree, start+end for a range, neither for
// the whole document. The mediaType parameter picks the representation
// (application/xml by default).
func (api *API) DocumentHandler(c *gin.Context) {
	resource := strings.TrimSpace(c.Query("resource"))
	if resource == "" {
		SendValidationError(c, "resource", "resource parameter is required")
		return
	}

	payload, contentType, err := api.backend.RetrievePassage(
		c.Request.Context(),
		resource,
		c.Query("tree"),
		strings.TrimSpace(c.Query("ref")),
		strings.TrimSpace(c.Query("start")),
		strings.TrimSpace(c.Query("end")),
		strings.TrimSpace(c.Query("mediaType")),
	)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, payload)
}
