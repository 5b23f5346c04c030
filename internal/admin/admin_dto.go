package admin

type UserCountResponse struct {
	Total     int64 `json:"total"`
	Employees int64 `json:"employees"`
	Managers  int64 `json:"managers"`
	Admins    int64 `json:"admins"`
}

type LeaveStatisticsResponse struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type ComplaintStatisticsResponse struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}

// SystemSettings is the portal-wide settings document. It lives in
// Redis as a single JSON value; compiled-in defaults apply until an
// admin saves one.
type SystemSettings struct {
	SystemName  string `json:"systemName"`
	SystemEmail string `json:"systemEmail"`
	Timezone    string `json:"timezone"`
	DateFormat  string `json:"dateFormat"`

	MaxLeaveDaysPerRequest int  `json:"maxLeaveDaysPerRequest"`
	MinLeaveNoticeDays     int  `json:"minLeaveNoticeDays"`
	CarryForwardLeaves     bool `json:"carryForwardLeaves"`
	AutoApproveLeaves      bool `json:"autoApproveLeaves"`

	AutoAssignComplaints bool `json:"autoAssignComplaints"`
	EmailNotifications   bool `json:"emailNotifications"`

	SessionTimeoutHours   int  `json:"sessionTimeout"`
	PasswordMinLength     int  `json:"passwordMinLength"`
	RequireStrongPassword bool `json:"requireStrongPassword"`
	TwoFactorAuth         bool `json:"twoFactorAuth"`

	EmailOnLeaveRequest        bool `json:"emailOnLeaveRequest"`
	EmailOnLeaveApproval       bool `json:"emailOnLeaveApproval"`
	EmailOnComplaintAssignment bool `json:"emailOnComplaintAssignment"`
	EmailOnComplaintResolution bool `json:"emailOnComplaintResolution"`
}

// DefaultSettings are the factory values a reset restores.
var DefaultSettings = SystemSettings{
	SystemName:  "Staffdesk Workplace Portal",
	SystemEmail: "admin@company.com",
	Timezone:    "UTC",
	DateFormat:  "YYYY-MM-DD",

	MaxLeaveDaysPerRequest: 10,
	MinLeaveNoticeDays:     2,
	CarryForwardLeaves:     true,
	AutoApproveLeaves:      false,

	AutoAssignComplaints: false,
	EmailNotifications:   true,

	SessionTimeoutHours:   24,
	PasswordMinLength:     8,
	RequireStrongPassword: true,
	TwoFactorAuth:         false,

	EmailOnLeaveRequest:        true,
	EmailOnLeaveApproval:       true,
	EmailOnComplaintAssignment: true,
	EmailOnComplaintResolution: true,
}
