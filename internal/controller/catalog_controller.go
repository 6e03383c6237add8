package controller

import (
	"net/http"

	"github.com/dtnguyen2107/talentpulse/internal/service"
	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalogSvc service.CatalogService
}

func NewCatalogController(catalogSvc service.CatalogService) *CatalogController {
	return &CatalogController{catalogSvc: catalogSvc}
}

func (c *CatalogController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/roles", c.ListRoles)
	router.GET("/teams", c.ListTeams)
}

// ListRoles godoc
// @Summary List assessable roles
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.RoleResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /roles [get]
func (c *CatalogController) ListRoles(ctx *gin.Context) {
	roles, err := c.catalogSvc.ListRoles()
	if err != nil {
		respondError(ctx, err, "Failed to list roles")
		return
	}
	ctx.JSON(http.StatusOK, roles)
}

// ListTeams godoc
// @Summary List teams available for team-fit matching
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.TeamResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams [get]
func (c *CatalogController) ListTeams(ctx *gin.Context) {
	teams, err := c.catalogSvc.ListTeams()
	if err != nil {
		respondError(ctx, err, "Failed to list teams")
		return
	}
	ctx.JSON(http.StatusOK, teams)
}
