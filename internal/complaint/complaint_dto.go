package complaint

type SubmitComplaintRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required,min=10"`
	Category    string   `json:"category" binding:"required"`
	Priority    Priority `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH URGENT"`
}

type UpdateComplaintRequest struct {
	Status     Status  `json:"status" binding:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Resolution *string `json:"resolution"`
}

type ComplaintResponse struct {
	ID           string   `json:"id"`
	AuthorID     string   `json:"authorId"`
	AuthorName   string   `json:"authorName"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Priority     Priority `json:"priority"`
	Status       Status   `json:"status"`
	AssigneeID   *string  `json:"assigneeId,omitempty"`
	AssigneeName *string  `json:"assigneeName,omitempty"`
	Resolution   *string  `json:"resolution,omitempty"`
	SubmittedAt  string   `json:"submittedAt"`
	ResolvedAt   *string  `json:"resolvedAt,omitempty"`
}
