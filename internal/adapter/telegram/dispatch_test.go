package telegram

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/session"
)

func pressed(userID int64, a practiceAction) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		From: &tgbotapi.User{ID: userID},
		Data: practiceData(a),
	}}
}

func TestDispatchKeepsArrivalOrder(t *testing.T) {
	sess := session.New([]domain.Ayah{{
		LocalNumber: 1,
		Chapter:     domain.Chapter{Number: 112},
		Text:        "قُلْ هُوَ ٱللَّهُ أَحَدٌ",
	}}, domain.ModeSurah, 1)
	sess.Start()

	b := newTestBot()
	d := newDispatcher(b.getUserID, func(_ context.Context, u tgbotapi.Update) {
		switch practiceAction(u.CallbackQuery.Data[len("p:"):]) {
		case actionNext:
			// a slow lookup before the advance lands
			time.Sleep(20 * time.Millisecond)
			sess.AdvanceWord()
		case actionForgot:
			sess.MarkMistake(domain.MistakeForgot)
		}
	})

	d.dispatch(context.Background(), pressed(7, actionNext))
	d.dispatch(context.Background(), pressed(7, actionForgot))
	d.wait()

	mistakes := sess.Mistakes()
	require.Len(t, mistakes, 1)
	assert.Equal(t, domain.Mistake{VerseIndex: 0, WordIndex: 1, Kind: domain.MistakeForgot}, mistakes[0])
	assert.Empty(t, d.queues)
}

func TestDispatchRunsUsersInParallel(t *testing.T) {
	release := make(chan struct{})
	done := make(chan string, 2)

	b := newTestBot()
	d := newDispatcher(b.getUserID, func(_ context.Context, u tgbotapi.Update) {
		if u.CallbackQuery.From.ID == 1 {
			<-release
		} else {
			close(release)
		}
		done <- b.getUserID(u)
	})

	d.dispatch(context.Background(), pressed(1, actionNext))
	d.dispatch(context.Background(), pressed(2, actionNext))

	select {
	case <-time.After(2 * time.Second):
		t.Fatal("user 1 blocked user 2")
	case first := <-done:
		assert.Equal(t, "2", first)
	}
	d.wait()
	assert.Equal(t, "1", <-done)
}

func TestDispatchDropsUpdatesWithoutUser(t *testing.T) {
	calls := 0
	b := newTestBot()
	d := newDispatcher(b.getUserID, func(context.Context, tgbotapi.Update) { calls++ })

	d.dispatch(context.Background(), tgbotapi.Update{UpdateID: 3})
	d.wait()
	assert.Zero(t, calls)
}
