package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/gatsolucoes/gat_backend/middlewares"
	"github.com/gatsolucoes/gat_backend/models"
	"github.com/gatsolucoes/gat_backend/utils"
)

func registerRoutes(r *gin.Engine) {
	r.Use(middlewares.AuthMiddleware())

	api := r.Group("/api")

	api.POST("/auth/login", loginHandler)
	api.POST("/auth/refresh", refreshHandler)

	// every authenticated role may read; cliente is read-only
	staff := api.Group("", middlewares.RequireRole(
		models.UserRoleSuperadmin, models.UserRoleAdmin, models.UserRoleCoord, models.UserRoleTechnician, models.UserRoleClient))

	// write access for the back office
	office := api.Group("", middlewares.RequireRole(
		models.UserRoleSuperadmin, models.UserRoleAdmin, models.UserRoleCoord))

	// field staff also record work order results
	field := api.Group("", middlewares.RequireRole(
		models.UserRoleSuperadmin, models.UserRoleAdmin, models.UserRoleCoord, models.UserRoleTechnician))

	admins := api.Group("", middlewares.RequireRole(
		models.UserRoleSuperadmin, models.UserRoleAdmin))

	office.POST("/auto-inspections/generate", generateInspectionsHandler)
	office.POST("/auto-inspections/preview", previewInspectionsHandler)
	office.GET("/auto-inspections/stats", autoInspectionStatsHandler)

	registerResource[models.Client](staff, office, "/clients", models.CreateClient, models.UpdateClient, models.DeleteClient)
	registerResource[models.Branch](staff, office, "/branches", models.CreateBranch, models.UpdateBranch, models.DeleteBranch)
	registerResource[models.Contract](staff, office, "/contracts", models.CreateContract, models.UpdateContract, models.DeleteContract)
	registerResource[models.Inventory](staff, office, "/inventories", models.CreateInventory, models.UpdateInventory, models.DeleteInventory)
	registerResource[models.Equipment](staff, office, "/equipments", models.CreateEquipment, models.UpdateEquipment, models.DeleteEquipment)
	registerResource[models.Inspection](staff, office, "/inspections", models.CreateInspection, models.UpdateInspection, models.DeleteInspection)
	registerResource[models.Maintenance](staff, office, "/maintenances", models.CreateMaintenance, models.UpdateMaintenance, models.DeleteMaintenance)
	registerResource[models.Team](staff, office, "/teams", models.CreateTeam, models.UpdateTeam, models.DeleteTeam)
	registerResource[models.Technician](staff, office, "/technicians", models.CreateTechnician, models.UpdateTechnician, models.DeleteTechnician)
	registerResource[models.Standard](staff, office, "/standards", models.CreateStandard, models.UpdateStandard, models.DeleteStandard)

	field.PUT("/inspections/:id/result", resultHandler(models.RecordInspectionResult))
	field.PUT("/maintenances/:id/result", resultHandler(models.RecordMaintenanceResult))

	field.POST("/uploads/sign", signUploadHandler)
	field.POST("/uploads/complete", completeUploadHandler)

	admins.GET("/users", listHandler[models.User])
	admins.GET("/users/:id", getHandler[models.User])
	admins.POST("/users", createHandler(models.CreateUser))
	admins.PUT("/users/:id", updateHandler(models.UpdateUser))
	admins.DELETE("/users/:id", deleteHandler(models.DeactivateUser))
}

// registerResource wires the uniform CRUD surface of one entity: reads on
// the wider group, writes on the narrower one.
func registerResource[T any, I any](reads, writes *gin.RouterGroup, path string,
	create func(context.Context, *I) (*T, error),
	update func(context.Context, int, *I) (*T, error),
	remove func(context.Context, int) error,
) {
	reads.GET(path, listHandler[T])
	reads.GET(path+"/:id", getHandler[T])
	writes.POST(path, createHandler(create))
	writes.PUT(path+"/:id", updateHandler(update))
	writes.DELETE(path+"/:id", deleteHandler(remove))
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": utils.ProcessValidationErrors(verrs)})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return false
	}
	return true
}

func listHandler[T any](c *gin.Context) {
	items, err := utils.FetchAllModels[T](c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func getHandler[T any](c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := utils.FetchSingleModel[T](c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

func createHandler[I any, T any](create func(context.Context, *I) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input I
		if !bindJSON(c, &input) {
			return
		}
		item, err := create(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func updateHandler[I any, T any](update func(context.Context, int, *I) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input I
		if !bindJSON(c, &input) {
			return
		}
		item, err := update(c.Request.Context(), id, &input)
		if err != nil {
			if err == utils.ErrorRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deleteHandler(remove func(context.Context, int) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := remove(c.Request.Context(), id); err != nil {
			if err == utils.ErrorRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	}
}

func resultHandler[I any, T any](record func(context.Context, int, *I) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input I
		if !bindJSON(c, &input) {
			return
		}
		item, err := record(c.Request.Context(), id, &input)
		if err != nil {
			if err == utils.ErrorRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}
