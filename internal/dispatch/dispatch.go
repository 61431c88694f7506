package dispatch

import (
	"context"
	"log/slog"

	"github.com/airi-scans/steward/internal/engine"
	"github.com/airi-scans/steward/internal/repository"
)

// DisplayClient manages the per-project status messages on the chat
// platform.
type DisplayClient interface {
	CreateMessage(ctx context.Context, channelID, content string) (messageID string, err error)
	UpdateMessage(ctx context.Context, channelID, messageID, content string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}

// ChatClient sends direct and channel messages.
type ChatClient interface {
	Send(ctx context.Context, target, content string) error
}

// TrackerClient writes back to the issue tracker.
type TrackerClient interface {
	Transition(ctx context.Context, issueKey, transitionID string, fields map[string]string) error
	Comment(ctx context.Context, issueKey, body string) error
}

// Dispatcher executes engine intents against the external systems.
// Every failure is logged and skipped; the next sweep reconverges on
// whatever a failed delivery left behind, so there is no retry queue.
type Dispatcher struct {
	display  DisplayClient
	chat     ChatClient
	tracker  TrackerClient
	projects repository.ProjectRepository
	logger   *slog.Logger
}

func New(display DisplayClient, chat ChatClient, tracker TrackerClient, projects repository.ProjectRepository, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		display:  display,
		chat:     chat,
		tracker:  tracker,
		projects: projects,
		logger:   logger,
	}
}

// Dispatch performs each intent in order.
func (d *Dispatcher) Dispatch(ctx context.Context, intents []engine.Intent) {
	for _, in := range intents {
		switch in := in.(type) {
		case engine.CreateDisplay:
			messageID, err := d.display.CreateMessage(ctx, in.ChannelID, in.Content)
			if err != nil {
				d.logger.Error("create display failed", "issue", in.IssueKey, "channel", in.ChannelID, "error", err)
				continue
			}
			if err := d.projects.SetDisplayMessage(ctx, in.IssueKey, in.ChannelID, messageID); err != nil {
				d.logger.Error("recording display handle failed", "issue", in.IssueKey, "error", err)
			}
		case engine.UpdateDisplay:
			if err := d.display.UpdateMessage(ctx, in.ChannelID, in.MessageID, in.Content); err != nil {
				d.logger.Error("update display failed", "issue", in.IssueKey, "message", in.MessageID, "error", err)
			}
		case engine.DeleteDisplay:
			if err := d.display.DeleteMessage(ctx, in.ChannelID, in.MessageID); err != nil {
				d.logger.Error("delete display failed", "issue", in.IssueKey, "message", in.MessageID, "error", err)
			}
		case engine.Notify:
			if err := d.chat.Send(ctx, in.Target, in.Content); err != nil {
				d.logger.Error("notify failed", "target", in.Target, "error", err)
			}
		case engine.TrackerTransition:
			if err := d.tracker.Transition(ctx, in.IssueKey, in.TransitionID, in.Fields); err != nil {
				d.logger.Error("tracker transition failed", "issue", in.IssueKey, "transition", in.TransitionID, "error", err)
			}
		case engine.TrackerComment:
			if err := d.tracker.Comment(ctx, in.IssueKey, in.Body); err != nil {
				d.logger.Error("tracker comment failed", "issue", in.IssueKey, "error", err)
			}
		default:
			d.logger.Error("unknown intent", "intent", in)
		}
	}
}
