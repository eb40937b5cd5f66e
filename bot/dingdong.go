// Package bot holds message handlers wired to a ListenerWorker.
package bot

import (
	"context"
	"log/slog"
	"puppet-lab/domain"
	"puppet-lab/facade"
	"strings"
)

// DingDong answers "dong" to every "ding" it is not the author of.
// In a room the reply mentions the sender, and a "ding" has to mention the bot
// when the room has more than two members.
type DingDong struct {
	log *slog.Logger
}

func NewDingDong(log *slog.Logger) DingDong {
	return DingDong{log: log}
}

func (d DingDong) Handle(ctx context.Context, message *facade.Message) error {
	h, err := message.Ready(ctx)
	if err != nil {
		return err
	}
	if h.Self() || h.Type() != domain.MessageTypeText {
		return nil
	}
	if !strings.EqualFold(h.MentionText(), "ding") {
		return nil
	}

	if room := h.Room(); room != nil {
		if len(room.MemberIDs) > 2 && !h.MentionSelf() {
			return nil
		}
		_, err = h.Say(ctx, domain.Text("dong"), h.From())
	} else {
		_, err = h.Say(ctx, domain.Text("dong"))
	}
	if err != nil {
		return err
	}
	d.log.Info("Ding answered", "message", h.String())
	return nil
}
