package model

type ChoreStatus string

const (
	ChorePending          ChoreStatus = "pending"
	ChoreAwaitingApproval ChoreStatus = "awaiting_approval"
	ChoreApproved         ChoreStatus = "approved"
	ChoreRejected         ChoreStatus = "rejected"
)

type JobStatus string

const (
	JobAvailable        JobStatus = "available"
	JobClaimed          JobStatus = "claimed"
	JobAwaitingApproval JobStatus = "awaiting_approval"
	JobApproved         JobStatus = "approved"
	JobRejected         JobStatus = "rejected"
)
