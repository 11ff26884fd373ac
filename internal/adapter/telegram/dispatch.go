package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// dispatcher runs the updates of each user one at a time in arrival order.
// Different users are handled in parallel. A user's worker exits as soon as
// its queue is drained.
type dispatcher struct {
	key    func(tgbotapi.Update) string
	handle func(context.Context, tgbotapi.Update)

	mu     sync.Mutex
	queues map[string][]tgbotapi.Update
	wg     sync.WaitGroup
}

func newDispatcher(key func(tgbotapi.Update) string, handle func(context.Context, tgbotapi.Update)) *dispatcher {
	return &dispatcher{
		key:    key,
		handle: handle,
		queues: make(map[string][]tgbotapi.Update),
	}
}

// dispatch queues update behind the pending updates of the same user.
// Updates without a user are dropped.
func (d *dispatcher) dispatch(ctx context.Context, update tgbotapi.Update) {
	userID := d.key(update)
	if userID == "" {
		return
	}

	d.mu.Lock()
	pending, running := d.queues[userID]
	d.queues[userID] = append(pending, update)
	d.mu.Unlock()

	if !running {
		d.wg.Add(1)
		go d.drain(ctx, userID)
	}
}

func (d *dispatcher) drain(ctx context.Context, userID string) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		pending := d.queues[userID]
		if len(pending) == 0 {
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
		update := pending[0]
		d.queues[userID] = pending[1:]
		d.mu.Unlock()

		d.handle(ctx, update)
	}
}

// wait blocks until every queued update has been handled.
func (d *dispatcher) wait() {
	d.wg.Wait()
}
