package model

// AdminStats feeds the overview tab of the admin dashboard
type AdminStats struct {
	TotalJobs            int64                       `json:"total_jobs"`
	ActiveJobs           int64                       `json:"active_jobs"`
	TotalCompanies       int64                       `json:"total_companies"`
	VerifiedCompanies    int64                       `json:"verified_companies"`
	TotalApplications    int64                       `json:"total_applications"`
	PendingApplications  int64                       `json:"pending_applications"`
	TotalUsers           int64                       `json:"total_users"`
	ApplicationsByStatus map[ApplicationStatus]int64 `json:"applications_by_status"`
}
