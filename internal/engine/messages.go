package engine

import (
	"fmt"
	"strings"

	"github.com/airi-scans/steward/internal/domain/project"
)

func roleLabel(r project.Role) string {
	switch r {
	case project.RoleLQC:
		return "LQC"
	case project.RoleSQC:
		return "SQC"
	}
	return "assignee"
}

// displayContent renders the status message mirroring a project.
func displayContent(p *project.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** %s\n", p.IssueKey, p.Title)
	fmt.Fprintf(&b, "Status: %s\n", p.Status)
	if len(p.Languages) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(p.Languages, ", "))
	}
	for _, role := range project.RolesFor(p.Type) {
		state := "open"
		switch {
		case p.InProgress.Has(role):
			state = "in progress"
		case p.Assigned.Has(role):
			state = "assigned"
		}
		fmt.Fprintf(&b, "%s: %s\n", roleLabel(role), state)
	}
	return b.String()
}

func assignedMessage(p *project.Project, role project.Role) string {
	return fmt.Sprintf("You are now the %s for %s (%s). Reply with !start once you begin.",
		roleLabel(role), p.IssueKey, p.Title)
}

// nagMessage escalates with the number of prior unanswered requests.
func nagMessage(p *project.Project, role project.Role, priorRequests int) string {
	switch priorRequests {
	case 0:
		return fmt.Sprintf("Quick check-in on %s: have you started the %s work? Reply with !start when you do.",
			p.IssueKey, roleLabel(role))
	case 1:
		return fmt.Sprintf("Second reminder for %s: the %s slot still shows no progress. Please confirm you are on it.",
			p.IssueKey, roleLabel(role))
	default:
		return fmt.Sprintf("Final reminder for %s: without a progress confirmation the %s slot will be reopened for others.",
			p.IssueKey, roleLabel(role))
	}
}

func releasedMessage(p *project.Project, role project.Role) string {
	return fmt.Sprintf("You have been removed as %s of %s after repeated unanswered check-ins. The slot is open again.",
		roleLabel(role), p.IssueKey)
}

func autoReleaseComment(role project.Role) string {
	return fmt.Sprintf("%s assignment released automatically after repeated unanswered progress requests.", roleLabel(role))
}

func teamLeadMessage(p *project.Project, overdue []project.Role) string {
	labels := make([]string, len(overdue))
	for i, r := range overdue {
		labels[i] = roleLabel(r)
	}
	return fmt.Sprintf("%s (%s) has exceeded the maximum time in %s for: %s. Consider unassigning the slot or abandoning the project.",
		p.IssueKey, p.Title, p.Status, strings.Join(labels, ", "))
}
