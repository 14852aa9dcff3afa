package models

import (
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of a job application.
type JobStatus string

const (
	JobStatusApplied      JobStatus = "Applied"
	JobStatusInterviewing JobStatus = "Interviewing"
	JobStatusRejected     JobStatus = "Rejected"
	JobStatusOffer        JobStatus = "Offer"
	JobStatusWithdrawn    JobStatus = "Withdrawn"
)

// ParseJobStatus converts a raw string to a JobStatus, returning an error for
// unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case JobStatusApplied, JobStatusInterviewing, JobStatusRejected, JobStatusOffer, JobStatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// JobRecord is one tracked job application. The JSON shape is also the on-disk
// format of the file store.
type JobRecord struct {
	ID              string     `db:"id"               json:"id"`
	JobTitle        string     `db:"job_title"        json:"jobTitle"`
	CompanyName     string     `db:"company_name"     json:"companyName"`
	ApplicationLink string     `db:"application_link" json:"applicationLink"`
	Status          JobStatus  `db:"status"           json:"status"`
	DateAdded       time.Time  `db:"date_added"       json:"dateAdded"`
	DateUpdated     *time.Time `db:"date_updated"     json:"dateUpdated,omitempty"`
}

// JobUpdate carries the user-editable fields of a JobRecord.
type JobUpdate struct {
	JobTitle        string
	CompanyName     string
	ApplicationLink string
	Status          JobStatus
}

// Apply merges u into j and stamps the update time.
func (j *JobRecord) Apply(u JobUpdate, now time.Time) {
	j.JobTitle = u.JobTitle
	j.CompanyName = u.CompanyName
	j.ApplicationLink = u.ApplicationLink
	j.Status = u.Status
	j.DateUpdated = &now
}
