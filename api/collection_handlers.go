package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cllg-project/TexTile-Backend/model"
)

const (
	dtsContext = "https://distributed-text-services.github.io/specifications/context/1-alpha1.json"
	dtsVersion = "1-alpha"
)

func collectionType(coll model.Collection) string {
	if coll.Resource {
		return "Resource"
	}
	return "Collection"
}

func collectionMember(coll model.Collection) gin.H {
	return gin.H{
		"@id":        coll.Identifier,
		"@type":      collectionType(coll),
		"title":      coll.Title,
		"totalItems": coll.NbChildren,
	}
}

func collectionPageURL(id, nav string, page int) string {
	values := url.Values{}
	values.Set("id", id)
	if nav != "" && nav != "children" {
		values.Set("nav", nav)
	}
	values.Set("page", fmt.Sprintf("%d", page))
	return "/collection/?" + values.Encode()
}

// ListCollectionsHandler lists top-level collections, optionally filtered
// by a title prefix.
func (api *API) ListCollectionsHandler(c *gin.Context) {
	prefix := strings.TrimSpace(c.Query("q"))
	if prefix == "" {
		prefix = strings.TrimSpace(c.Query("prefix"))
	}
	collections, err := api.backend.ListCollections(c.Request.Context(), prefix)
	if err != nil {
		SendDomainError(c, err)
		return
	}

	members := make([]gin.H, len(collections))
	for i, coll := range collections {
		members[i] = collectionMember(coll)
	}
	c.JSON(http.StatusOK, gin.H{
		"@context":   dtsContext,
		"dtsVersion": dtsVersion,
		"member":     members,
		"totalItems": len(members),
	})
}

// CollectionHandler serves the DTS collection view: the collection itself
// plus one page of its members (nav=children, the default) or its parent
// chain (nav=parents).
func (api *API) CollectionHandler(c *gin.Context) {
	ctx := c.Request.Context()
	identifier := c.DefaultQuery("id", model.RootCollectionID)
	nav := c.DefaultQuery("nav", "children")

	coll, err := api.backend.ResolveCollection(ctx, identifier)
	if err != nil {
		SendDomainError(c, err)
		return
	}

	envelope := gin.H{
		"@context":   dtsContext,
		"dtsVersion": dtsVersion,
		"@id":        coll.Identifier,
		"@type":      collectionType(coll),
		"title":      coll.Title,
		"totalItems": coll.NbChildren,
	}

	if nav == "parents" {
		parents, err := api.backend.CollectionParents(ctx, identifier)
		if err != nil {
			SendDomainError(c, err)
			return
		}
		members := make([]gin.H, len(parents))
		for i, parent := range parents {
			members[i] = collectionMember(parent)
		}
		envelope["member"] = members
		c.JSON(http.StatusOK, envelope)
		return
	}

	pageNum := intQuery(c, "page", 1)
	page, err := api.backend.CollectionChildren(ctx, identifier, c.Query("sort_by"), c.Query("sort_order"), pageNum)
	if err != nil {
		SendDomainError(c, err)
		return
	}

	members := make([]gin.H, len(page.Members))
	for i, member := range page.Members {
		members[i] = collectionMember(member)
	}
	envelope["member"] = members
	envelope["totalItems"] = page.Total

	if page.LastPage > 1 {
		view := gin.H{
			"@id":   collectionPageURL(identifier, nav, page.Page),
			"@type": "PartialCollectionView",
			"first": collectionPageURL(identifier, nav, 1),
			"last":  collectionPageURL(identifier, nav, page.LastPage),
		}
		if page.Page > 1 {
			view["previous"] = collectionPageURL(identifier, nav, page.Page-1)
		}
		if page.Page < page.LastPage {
			view["next"] = collectionPageURL(identifier, nav, page.Page+1)
		}
		envelope["view"] = view
	}
	c.JSON(http.StatusOK, envelope)
}
