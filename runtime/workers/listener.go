package workers

import (
	"context"
	"log/slog"
	"puppet-lab/contract"
	"puppet-lab/facade"
)

// ListenerWorker pulls inbound message ids from a puppet and hands them to a handler,
// one message at a time and in the order the puppet reports them.
// A failing handler is logged and does not stop the loop, a failing Poll does.
type ListenerWorker struct {
	source    contract.IMessageSource
	accessory *facade.Accessory
	handler   facade.MessageHandler
	log       *slog.Logger
}

func NewListenerWorker(source contract.IMessageSource, accessory *facade.Accessory, handler facade.MessageHandler, log *slog.Logger) ListenerWorker {
	return ListenerWorker{source: source, accessory: accessory, handler: handler, log: log}
}

func (w ListenerWorker) Run(ctx context.Context) error {
	for {
		ids, err := w.source.Poll(ctx)
		if ctx.Err() != nil {
			w.log.Debug("Stopping worker")
			return nil
		}
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := w.handler(ctx, w.accessory.Message(id)); err != nil {
				w.log.Error("Message handler failed", "id", id, "error", err)
			}
		}
	}
}
