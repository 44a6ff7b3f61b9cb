package technician

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, service TechnicianServiceAPI) {
	technicianController := &TechnicianController{Service: service}

	group := r.Group("/api/technicians")
	{
		group.GET("", technicianController.ListTechnicians)
		group.POST("", technicianController.CreateTechnician)
		group.DELETE("/:id", technicianController.DeleteTechnician)
		group.POST("/:id/checkin", technicianController.RecordCheckIn)
	}
}
