package rbac

const (
	ResourceLeave = "leave"
	ResourceUser  = "user"

	ActionCreate  = "create"
	ActionRead    = "read"
	ActionReadOwn = "read_own"
	ActionDecide  = "decide"
	ActionDelete  = "delete"
	ActionUpdate  = "update"
)

type PolicyRow struct {
	Role     string
	Resource string
	Action   string
}

// DefaultPolicies is the hostel ACL.
var DefaultPolicies = []PolicyRow{
	{Role: "student", Resource: ResourceLeave, Action: ActionCreate},
	{Role: "student", Resource: ResourceLeave, Action: ActionReadOwn},

	{Role: "parent", Resource: ResourceLeave, Action: ActionRead},
	{Role: "parent", Resource: ResourceLeave, Action: ActionDecide},

	{Role: "admin", Resource: ResourceLeave, Action: ActionRead},
	{Role: "admin", Resource: ResourceLeave, Action: ActionDecide},
	{Role: "admin", Resource: ResourceLeave, Action: ActionDelete},
	{Role: "admin", Resource: ResourceUser, Action: ActionRead},
	{Role: "admin", Resource: ResourceUser, Action: ActionUpdate},
}
