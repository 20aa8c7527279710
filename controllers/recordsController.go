package controllers

import (
	"ClinicRecords/handlers"
	"ClinicRecords/middlewares"
	"ClinicRecords/permissions"

	"github.com/gin-gonic/gin"
)

// RecordHandlers groups the handlers of the five clinical resources.
type RecordHandlers struct {
	Patients      *handlers.PatientHandler
	Doctors       *handlers.DoctorHandler
	Appointments  *handlers.AppointmentHandler
	Prescriptions *handlers.PrescriptionHandler
	HealthRecords *handlers.HealthRecordHandler
}

type resourceRoutes struct {
	list, create, retrieve, update, destroy gin.HandlerFunc
}

// registerResource mounts list+create on "<path>/" and retrieve, update and
// destroy on "<path>/:id/", all behind auth and the given predicate.
func registerResource(router gin.IRouter, path string, auth gin.HandlerFunc, pred permissions.Predicate, routes resourceRoutes) {
	group := router.Group(path, auth, middlewares.RequirePermission(pred))
	{
		group.GET("/", routes.list)
		group.POST("/", routes.create)
		group.GET("/:id/", routes.retrieve)
		group.PUT("/:id/", routes.update)
		group.PATCH("/:id/", routes.update)
		group.DELETE("/:id/", routes.destroy)
	}
}

// SetupRecordRoutes registers every clinical resource with its role gate.
func SetupRecordRoutes(router gin.IRouter, auth gin.HandlerFunc, h RecordHandlers) {
	registerResource(router, "/patients", auth, permissions.IsPatient, resourceRoutes{
		list:     h.Patients.GetAllPatients,
		create:   h.Patients.CreatePatient,
		retrieve: h.Patients.GetPatientByID,
		update:   h.Patients.UpdatePatient,
		destroy:  h.Patients.DeletePatient,
	})

	registerResource(router, "/doctors", auth, permissions.IsDoctor, resourceRoutes{
		list:     h.Doctors.GetAllDoctors,
		create:   h.Doctors.CreateDoctor,
		retrieve: h.Doctors.GetDoctorByID,
		update:   h.Doctors.UpdateDoctor,
		destroy:  h.Doctors.DeleteDoctor,
	})

	registerResource(router, "/appointments", auth, permissions.IsPatient, resourceRoutes{
		list:     h.Appointments.GetAllAppointments,
		create:   h.Appointments.CreateAppointment,
		retrieve: h.Appointments.GetAppointmentByID,
		update:   h.Appointments.UpdateAppointment,
		destroy:  h.Appointments.DeleteAppointment,
	})

	registerResource(router, "/prescriptions", auth, permissions.IsDoctor, resourceRoutes{
		list:     h.Prescriptions.GetAllPrescriptions,
		create:   h.Prescriptions.CreatePrescription,
		retrieve: h.Prescriptions.GetPrescriptionByID,
		update:   h.Prescriptions.UpdatePrescription,
		destroy:  h.Prescriptions.DeletePrescription,
	})

	// health records are open to any authenticated identity
	registerResource(router, "/health-records", auth, permissions.IsAuthenticated, resourceRoutes{
		list:     h.HealthRecords.GetAllHealthRecords,
		create:   h.HealthRecords.CreateHealthRecord,
		retrieve: h.HealthRecords.GetHealthRecordByID,
		update:   h.HealthRecords.UpdateHealthRecord,
		destroy:  h.HealthRecords.DeleteHealthRecord,
	})
}
