// Package telegram adapts the conversation engine to the Telegram Bot API.
// It owns nothing but plumbing: inbound messages are looked up against the
// session store, run through the engine, and the reply is rendered as text,
// an optional reply keyboard and an optional document attachment.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"medrep-bot/internal/engine"
	"medrep-bot/internal/session"
)

// Bot is the long-polling Telegram front end.
type Bot struct {
	tb       *tele.Bot
	engine   *engine.Engine
	sessions *session.Store
	log      *zap.Logger
}

// New constructs the bot and registers its handlers.  Commands and plain
// text all funnel into the same engine transition; the engine decides what
// the input means in the session's current state.
func New(token string, eng *engine.Engine, sessions *session.Store, log *zap.Logger) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	b := &Bot{tb: tb, engine: eng, sessions: sessions, log: log}
	tb.Handle("/start", b.onText)
	tb.Handle("/cancel", b.onText)
	tb.Handle(tele.OnText, b.onText)
	return b, nil
}

// Start begins long polling and blocks until the process exits.
func (b *Bot) Start() { b.tb.Start() }

func (b *Bot) onText(c tele.Context) error {
	userID := strconv.FormatInt(c.Sender().ID, 10)
	sess := b.sessions.Get(userID)
	sess, reply := b.engine.Handle(context.Background(), sess, c.Text())
	b.sessions.Put(sess)
	return b.send(c, reply)
}

// send renders one engine reply.  A failed document delivery is reported to
// the user verbatim; the session has already returned to the main menu.
func (b *Bot) send(c tele.Context, reply engine.Reply) error {
	if reply.Text != "" {
		if err := b.sendText(c, reply); err != nil {
			b.log.Error("reply delivery failed", zap.Error(err))
			return err
		}
	}
	if reply.Attachment != nil {
		doc := &tele.Document{
			File:     tele.FromReader(bytes.NewReader(reply.Attachment.Data)),
			FileName: reply.Attachment.Name,
		}
		if err := c.Send(doc); err != nil {
			b.log.Error("report delivery failed",
				zap.String("file", reply.Attachment.Name),
				zap.Error(err))
			return c.Send(fmt.Sprintf(engine.MsgSendFailed, err))
		}
	}
	return nil
}

func (b *Bot) sendText(c tele.Context, reply engine.Reply) error {
	if markup := markupFor(reply); markup != nil {
		return c.Send(reply.Text, markup)
	}
	return c.Send(reply.Text)
}

// markupFor turns the reply's keyboard hint into Telegram markup.  Buttons
// become a resized reply keyboard; the engine still accepts the literal
// labels as typed text, so the keyboard stays a presentation layer.
func markupFor(reply engine.Reply) *tele.ReplyMarkup {
	if len(reply.Buttons) > 0 {
		m := &tele.ReplyMarkup{ResizeKeyboard: true}
		rows := make([]tele.Row, 0, len(reply.Buttons))
		for _, labels := range reply.Buttons {
			btns := make([]tele.Btn, 0, len(labels))
			for _, label := range labels {
				btns = append(btns, m.Text(label))
			}
			rows = append(rows, m.Row(btns...))
		}
		m.Reply(rows...)
		return m
	}
	if reply.RemoveKeyboard {
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	}
	return nil
}
