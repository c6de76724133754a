package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/middleware"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid identifier.")
		return 0, false
	}
	return uint(id), true
}

func parseUintQuery(c *gin.Context, name string) uint {
	v, _ := strconv.ParseUint(c.Query(name), 10, 64)
	return uint(v)
}

// requireAdmin gates administrative endpoints to super and branch
// admins. Finer branch ownership checks live in the usecases.
func requireAdmin(c *gin.Context) bool {
	role := middleware.CallerRole(c)
	if role == models.RoleSuperAdmin || role == models.RoleBranchAdmin {
		return true
	}
	httperr.Write(c, 403, "forbidden", "Admin role required.")
	return false
}

func requireStaff(c *gin.Context) bool {
	switch middleware.CallerRole(c) {
	case models.RoleSuperAdmin, models.RoleBranchAdmin, models.RoleDoctor, models.RoleNurse:
		return true
	}
	httperr.Write(c, 403, "forbidden", "Staff role required.")
	return false
}
