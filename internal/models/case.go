package models

// CaseDoctorStatus is a doctor's status on a single case. It is independent
// per case: a doctor may be approved on one case and pending on another.
type CaseDoctorStatus string

const (
	CaseDoctorPending  CaseDoctorStatus = "pending"
	CaseDoctorApproved CaseDoctorStatus = "approved"
	CaseDoctorRejected CaseDoctorStatus = "rejected"
)

// Case represents one patient's consultation thread linking them to a set of
// assigned doctors.
type Case struct {
	BaseModel
	PatientID       string `gorm:"size:36;index;not null" json:"patientId"`
	Name            string `gorm:"size:255" json:"name"`
	PrimaryDoctorID string `gorm:"size:36;index" json:"primaryDoctorId"`

	Patient       User `gorm:"foreignKey:PatientID" json:"-"`
	PrimaryDoctor User `gorm:"foreignKey:PrimaryDoctorID" json:"-"`

	Doctors      []CaseDoctor       `gorm:"foreignKey:CaseID" json:"doctors,omitempty"`
	Messages     []Message          `gorm:"foreignKey:CaseID" json:"-"`
	Measurements []MeasurementEntry `gorm:"foreignKey:CaseID" json:"-"`
	Documents    []Document         `gorm:"foreignKey:CaseID" json:"-"`
	Meetings     []Meeting          `gorm:"foreignKey:CaseID" json:"-"`
	Feedback     []CaseFeedback     `gorm:"foreignKey:CaseID" json:"-"`
}

// CaseDoctor is the assignment of a doctor to a case with a per-case status.
type CaseDoctor struct {
	BaseModel
	CaseID   string           `gorm:"size:36;index;uniqueIndex:uidx_case_doctor;not null" json:"caseId"`
	DoctorID string           `gorm:"size:36;index;uniqueIndex:uidx_case_doctor;not null" json:"doctorId"`
	Status   CaseDoctorStatus `gorm:"size:20;default:'pending'" json:"status"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// CaseFeedback is a patient's rating of a doctor on a case.
type CaseFeedback struct {
	BaseModel
	CaseID   string `gorm:"size:36;index;not null" json:"caseId"`
	DoctorID string `gorm:"size:36;index;not null" json:"doctorId"`
	Rating   int    `gorm:"not null" json:"rating"`
	Comment  string `gorm:"type:text" json:"comment"`
}

// IsOwner reports whether the given user is the case's owning patient.
func (cs *Case) IsOwner(userID string) bool {
	return cs.PatientID == userID
}

// DoctorStatus returns the doctor's per-case status. The second return value
// is false when the doctor is not assigned to the case at all. Requires the
// Doctors relation to be preloaded.
func (cs *Case) DoctorStatus(doctorID string) (CaseDoctorStatus, bool) {
	for _, cd := range cs.Doctors {
		if cd.DoctorID == doctorID {
			return cd.Status, true
		}
	}
	return "", false
}

// HasApprovedDoctor reports whether the doctor has accepted their assignment
// on this case.
func (cs *Case) HasApprovedDoctor(doctorID string) bool {
	status, ok := cs.DoctorStatus(doctorID)
	return ok && status == CaseDoctorApproved
}

// IsPrimary reports whether the doctor is the case's primary doctor.
func (cs *Case) IsPrimary(doctorID string) bool {
	return cs.PrimaryDoctorID != "" && cs.PrimaryDoctorID == doctorID
}

// CanRead reports whether a user may read the case's general surfaces
// (general chat, documents, measurement logs, meetings). The owning patient
// and any assigned doctor with an approved per-case status qualify.
func (cs *Case) CanRead(userID string, role Role) bool {
	if role == RolePatient {
		return cs.IsOwner(userID)
	}
	if role == RoleDoctor {
		return cs.HasApprovedDoctor(userID)
	}
	return false
}

// CanManage reports whether a user may recruit doctors onto the case or
// reassign its primary doctor: the owning patient or the current primary.
func (cs *Case) CanManage(userID string, role Role) bool {
	if role == RolePatient {
		return cs.IsOwner(userID)
	}
	if role == RoleDoctor {
		return cs.IsPrimary(userID)
	}
	return false
}
