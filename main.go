package main

import (
	"os"
	"sync"

	"go.uber.org/zap"

	"remindbot/bot"
	_ "remindbot/bots/ReminderBot"
)

const stopOnFailure = false

// getLogger creates a logger in the given namespace
func getLogger(ns string) (*zap.SugaredLogger, func() error) {
	logger, _ := zap.NewDevelopment(zap.Fields(zap.String("ns", ns)))

	log := logger.Sugar()
	return log, logger.Sync
}

// Botfarm entry point
func main() {
	logger, syncLogs := getLogger("Global")
	defer syncLogs()

	cfgFile, ok := os.LookupEnv("CONFIG_FILE")
	if !ok {
		logger.Fatalf("Configuration file name isn't set")
	}

	botConfigs, err := bot.LoadConfig(cfgFile)
	if err != nil {
		logger.Fatalw("Couldn't read configuration", "file", cfgFile, "err", err)
	}

	var wg sync.WaitGroup
	for _, rec := range bot.GetThemAll() {
		s, syncBotLogs := getLogger(rec.Name)
		defer syncBotLogs()

		cfg, err := botConfigs.For(rec)
		if err != nil {
			s.Error(err)
			if stopOnFailure {
				return
			}
			continue
		}

		ctx, err := rec.Bot.Init(cfg, s)
		if err != nil {
			s.Errorw("Couldn't initialize bot", "err", err)
			if stopOnFailure {
				return
			}
			continue
		}

		wg.Add(1)
		go func(b bot.Bot) {
			defer wg.Done()
			b.Run(ctx)
		}(rec.Bot)
	}

	wg.Wait()
	logger.Warn("All bots have stopped")
}
