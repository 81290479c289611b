package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/drmadhusudhan/clinic-api/internal/domain/doctor"
)

type DoctorHandler struct {
	doctors  doctor.Repository
	doctorID uuid.UUID
}

func NewDoctorHandler(doctors doctor.Repository, doctorID uuid.UUID) *DoctorHandler {
	return &DoctorHandler{doctors: doctors, doctorID: doctorID}
}

type doctorView struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience,omitempty"`
	ClinicName     string `json:"clinicName"`
	Address        string `json:"address,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	Email          string `json:"email,omitempty"`
	PhotoURL       string `json:"photoUrl,omitempty"`
	About          string `json:"about,omitempty"`
}

// Get handles GET /api/bookings/doctor.
func (h *DoctorHandler) Get(c *gin.Context) {
	d, err := h.doctors.GetByID(c.Request.Context(), h.doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, doctorView{
		Name:           d.Name,
		Specialization: d.Specialization,
		Experience:     d.Experience,
		ClinicName:     d.ClinicName,
		Address:        d.Address,
		PhoneNumber:    d.PhoneNumber,
		Email:          d.Email,
		PhotoURL:       d.PhotoURL,
		About:          d.About,
	})
}
