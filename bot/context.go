package bot

import (
	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot context keeps references to common (Telegram Bot API, logger)
// parameters of a bot.
type Context struct {
	Bot    *tg.BotAPI
	Logger *zap.SugaredLogger
}

// CloneWith returns a copy of the context whose logger is bound to the user.
func (ctx *Context) CloneWith(usr int64) *Context {
	c := *ctx
	c.Logger = ctx.Logger.With("usr", usr)
	return &c
}
