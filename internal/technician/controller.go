package technician

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TechnicianController struct {
	Service TechnicianServiceAPI
}

func (tc *TechnicianController) ListTechnicians(c *gin.Context) {
	techs, err := tc.Service.ListTechnicians()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, techs)
}

func (tc *TechnicianController) CreateTechnician(c *gin.Context) {
	var input CreateTechnicianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tech, err := tc.Service.CreateTechnician(input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tech)
}

func (tc *TechnicianController) DeleteTechnician(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := tc.Service.DeleteTechnician(id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (tc *TechnicianController) RecordCheckIn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input CheckInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, err := tc.Service.RecordCheckIn(id, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkIn)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technician id"})
		return 0, false
	}
	return uint(id), true
}

// ValidationError is the caller's fault; anything else is reported as a
// generic server error.
func writeServiceError(c *gin.Context, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
