package leave

type CreateLeaveRequest struct {
	Category string `json:"category" binding:"required,oneof=home_leave one_day_leave medical_leave emergency_leave other"`
	FromDate string `json:"from_date" binding:"required"`
	ToDate   string `json:"to_date" binding:"required"`
	FromTime string `json:"from_time" binding:"omitempty,hhmm"`
	ToTime   string `json:"to_time" binding:"omitempty,hhmm"`
	Reason   string `json:"reason" binding:"required"`
}

// DecideLeaveRequest carries the wire status; it is converted with
// ParseDecision before reaching the engine.
type DecideLeaveRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListFilter struct {
	Status      string
	RequesterID string
}

type LeaveResponse struct {
	ID             string   `json:"id"`
	RequesterID    string   `json:"requester_id"`
	RequesterName  string   `json:"requester_name"`
	Category       string   `json:"category"`
	CategoryLabel  string   `json:"category_label"`
	FromDate       string   `json:"from_date"`
	ToDate         string   `json:"to_date"`
	FromTime       string   `json:"from_time"`
	ToTime         string   `json:"to_time"`
	Reason         string   `json:"reason"`
	Status         string   `json:"status"`
	ParentApproval bool     `json:"parent_approval"`
	AdminApproval  bool     `json:"admin_approval"`
	FinalApproval  bool     `json:"final_approval"`
	RejectedBy     []string `json:"rejected_by"`
	Version        int64    `json:"version"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type DecisionResponse struct {
	ID        string `json:"id"`
	LeaveID   string `json:"leave_id"`
	Role      string `json:"role"`
	Decision  string `json:"decision"`
	ActorID   string `json:"actor_id"`
	ActorName string `json:"actor_name"`
	DecidedAt string `json:"decided_at"`
}
