package leave

type SubmitLeaveRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type LeaveResponse struct {
	ID            string  `json:"id"`
	RequesterID   string  `json:"requesterId"`
	RequesterName string  `json:"requesterName"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	Reason        string  `json:"reason"`
	Status        Status  `json:"status"`
	ReviewerID    *string `json:"reviewerId,omitempty"`
	ReviewerName  *string `json:"reviewerName,omitempty"`
	SubmittedAt   string  `json:"submittedAt"`
	DecidedAt     *string `json:"decidedAt,omitempty"`
}
