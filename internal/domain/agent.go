package domain

// CheckInAgent is a staff identity. Agents are provisioned out of band; the
// workflows only record which agent issued a pass.
type CheckInAgent struct {
	ID          int64
	AgentID     string
	Workstation string
	IsActive    bool
}
