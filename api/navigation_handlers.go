package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cllg-project/TexTile-Backend/internal/navigation"
)

// NavigationHandler serves the DTS navigation view over a document's
// citation tree. Selectors: ref (one unit) or start+end (a range); the
// direction parameter switches between down (default) and parents.
func (api *API) NavigationHandler(c *gin.Context) {
	resource := strings.TrimSpace(c.Query("resource"))
	if resource == "" {
		SendValidationError(c, "resource", "resource parameter is required")
		return
	}

	tree := c.Query("tree")
	ref := strings.TrimSpace(c.Query("ref"))
	start := strings.TrimSpace(c.Query("start"))
	end := strings.TrimSpace(c.Query("end"))

	if ref != "" && (start != "" || end != "") {
		SendError(c, http.StatusBadRequest, ErrorCodeAmbiguousSelector,
			"cannot combine ref with start/end")
		return
	}
	if (start == "") != (end == "") {
		SendValidationError(c, "start", "start and end must be given together")
		return
	}

	var members []navigation.Member
	var err error
	switch {
	case start != "":
		members, err = api.backend.NavigateBetween(resource, tree, start, end)
	case c.DefaultQuery("direction", "down") == "parents":
		if ref == "" {
			SendValidationError(c, "ref", "ref is required when direction=parents")
			return
		}
		members, err = api.backend.NavigateUp(resource, tree, ref)
	default:
		members, err = api.backend.NavigateDown(resource, tree, ref, intQuery(c, "down", 1))
	}
	if err != nil {
		SendDomainError(c, err)
		return
	}

	envelope := gin.H{
		"@context":   dtsContext,
		"dtsVersion": dtsVersion,
		"resource":   resource,
		"member":     members,
		"totalItems": len(members),
	}
	if tree != "" {
		envelope["tree"] = tree
	}
	if ref != "" {
		envelope["ref"] = ref
	}
	if start != "" {
		envelope["start"] = start
		envelope["end"] = end
	}
	c.JSON(http.StatusOK, envelope)
}
