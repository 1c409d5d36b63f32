package model

import "time"

// JobType is the employment arrangement of a tracked posting.
type JobType string

// Allowed job types.
const (
	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeContract   JobType = "CONTRACT"
	JobTypeInternship JobType = "INTERNSHIP"
	JobTypeFreelance  JobType = "FREELANCE"
	JobTypeTemporary  JobType = "TEMPORARY"
)

// Valid reports whether the job type is one of the allowed values.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract,
		JobTypeInternship, JobTypeFreelance, JobTypeTemporary:
		return true
	}
	return false
}

// ApplicationStatus tracks where a job application currently stands.
type ApplicationStatus string

// Allowed application statuses.
const (
	StatusSaved              ApplicationStatus = "SAVED"
	StatusApplied            ApplicationStatus = "APPLIED"
	StatusInProgress         ApplicationStatus = "IN_PROGRESS"
	StatusInterviewScheduled ApplicationStatus = "INTERVIEW_SCHEDULED"
	StatusInterviewed        ApplicationStatus = "INTERVIEWED"
	StatusOfferReceived      ApplicationStatus = "OFFER_RECEIVED"
	StatusRejected           ApplicationStatus = "REJECTED"
	StatusWithdrawn          ApplicationStatus = "WITHDRAWN"
	StatusAccepted           ApplicationStatus = "ACCEPTED"
)

// Valid reports whether the status is one of the allowed values.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSaved, StatusApplied, StatusInProgress, StatusInterviewScheduled,
		StatusInterviewed, StatusOfferReceived, StatusRejected,
		StatusWithdrawn, StatusAccepted:
		return true
	}
	return false
}

// EditableJobInfo holds the job fields a caller may set on create or update.
type EditableJobInfo struct {
	Title             string            `gorm:"type:varchar(200);not null" json:"title"`
	CompanyName       string            `gorm:"type:varchar(150);not null" json:"company_name"`
	JobURL            string            `gorm:"type:text" json:"job_url"`
	Location          string            `gorm:"type:varchar(200)" json:"location"`
	SalaryRange       string            `gorm:"type:varchar(100)" json:"salary_range"`
	JobType           JobType           `gorm:"type:varchar(20)" json:"job_type"`
	ApplicationStatus ApplicationStatus `gorm:"type:varchar(30);default:'SAVED'" json:"application_status"`
	JobDescription    string            `gorm:"type:text" json:"job_description"`
	Requirements      string            `gorm:"type:text" json:"requirements"`
	Notes             string            `gorm:"type:text" json:"notes"`
	AppliedDate       *time.Time        `gorm:"type:timestamp" json:"applied_date,omitempty"`
	Deadline          *time.Time        `gorm:"type:timestamp" json:"deadline,omitempty"`
}

// Job is the gorm model for a tracked application. A job always belongs to
// exactly one user; every query against this table is scoped by UserID.
type Job struct {
	ID     uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	UserID uint `gorm:"not null;index;<-:create" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	EditableJobInfo

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobPage is one page of a filtered job listing.
type JobPage struct {
	Content       []Job `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
}

// JobCountResponse is the body of the dashboard count endpoint.
type JobCountResponse struct {
	Count int64 `json:"count"`
}
