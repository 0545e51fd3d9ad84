package reminderbot

import (
	"context"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"remindbot/bot"
	"remindbot/bots/ReminderBot/handler"
	"remindbot/bots/ReminderBot/parser"
	"remindbot/bots/ReminderBot/reminder"
	"remindbot/bots/ReminderBot/tgbot"
)

type ReminderBot struct {
	handler *handler.Handler
	manager *reminder.Manager
}

func (rb *ReminderBot) Init(cfg *bot.Config, l *zap.SugaredLogger) (*bot.Context, error) {
	b, err := tg.NewBotAPI(cfg.TgToken)
	if err != nil {
		l.Errorw("failed to initialize Telegram Bot", "err", err)
		return nil, errors.Wrap(err, "failed to initialize Telegram Bot")
	}

	b.Debug = cfg.Debug

	l.Infof("authorized on account %q (%q, %d)", b.Self.FirstName, b.Self.UserName, b.Self.ID)

	clk := clock.New()
	messenger := tgbot.NewMessenger(b, cfg)
	rb.manager = reminder.NewManager(clk, handler.Deliver(messenger), l)
	rb.handler = handler.New(parser.New(clk), rb.manager, messenger)

	l.Info(handler.Usage)

	return &bot.Context{Bot: b, Logger: l}, nil
}

func (rb *ReminderBot) Run(ctx *bot.Context) {
	if ctx.Bot == nil || rb.handler == nil {
		ctx.Logger.Warn("Bot can't run")
		return
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go rb.manager.Run(runCtx)

	uCfg := tg.NewUpdate(0)
	uCfg.Timeout = 60

	for u := range ctx.Bot.GetUpdatesChan(uCfg) {
		msg, ok := tgbot.ToMessage(ctx.Bot.Self.UserName, u.Message)
		if !ok {
			continue
		}

		uctx := ctx.CloneWith(msg.Sender.ID)
		go rb.handler.HandleMessage(uctx.Logger, msg)
	}

	ctx.Logger.Warnw("stopped receiving updates; pending reminders are lost", "pending", rb.manager.Pending())
}

func init() {
	bot.Register("ReminderBot", &ReminderBot{}, bot.CfgTgToken)
}
