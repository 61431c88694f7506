package engine

// Intent describes one side effect for the external dispatcher to
// perform. The engine only emits intents; it never calls the tracker or
// chat platform itself, and it does not retry failed deliveries.
type Intent interface {
	intent()
}

// CreateDisplay asks for a new status message mirroring the project in
// the given channel. The dispatcher reports the created message handle
// back through ProjectRepository.SetDisplayMessage.
type CreateDisplay struct {
	IssueKey  string
	ChannelID string
	Content   string
}

// UpdateDisplay asks for an edit of the existing status message.
type UpdateDisplay struct {
	IssueKey  string
	ChannelID string
	MessageID string
	Content   string
}

// DeleteDisplay asks for removal of the existing status message.
type DeleteDisplay struct {
	IssueKey  string
	ChannelID string
	MessageID string
}

// Notify asks for a direct message. Target is a chat user id, or a
// channel id for team-lead escalations.
type Notify struct {
	Target  string
	Content string
}

// TrackerTransition asks for a workflow transition on the tracker issue.
type TrackerTransition struct {
	IssueKey     string
	TransitionID string
	Fields       map[string]string
}

// TrackerComment asks for a comment on the tracker issue.
type TrackerComment struct {
	IssueKey string
	Body     string
}

func (CreateDisplay) intent()     {}
func (UpdateDisplay) intent()     {}
func (DeleteDisplay) intent()     {}
func (Notify) intent()            {}
func (TrackerTransition) intent() {}
func (TrackerComment) intent()    {}
