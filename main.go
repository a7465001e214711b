package main

import (
	"context"
	"time"

	"donna/internal/config"
	"donna/internal/conversation"
	"donna/internal/dispatch"
	"donna/internal/event"
	"donna/internal/folder"
	"donna/internal/google"
	"donna/internal/intent"
	"donna/internal/llm"
	"donna/internal/logger"
	"donna/internal/meetpool"
	"donna/internal/server"
	"donna/internal/whatsapp"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; panic is the only escalation path.
		panic(err)
	}

	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}

	bot, err := config.LoadBot("config.yaml")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config.yaml")
	}

	completer, err := llm.NewClient(ctx, cfg.LLM, bot.Model)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create chat model")
	}

	credentials := []byte(cfg.Google.CredentialsJSON)

	calendar, err := google.NewCalendar(ctx, credentials, cfg.Google.CalendarID, bot.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create calendar capability")
	}

	drive, err := google.NewDrive(ctx, credentials, cfg.Google.SharedFolderID)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create drive capability")
	}

	repo, err := conversation.NewRedisRepository(ctx, cfg.Redis.URL, time.Duration(bot.ConversationTTLSeconds)*time.Second)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect conversation store")
	}
	defer repo.Close()

	pipeline := dispatch.NewPipeline(
		intent.NewClassifier(completer),
		event.NewExtractor(completer, bot.Model.Temperature),
		folder.NewClassifier(completer, bot.Folders),
		meetpool.New(cfg.Pool.FilePath, calendar),
		calendar,
		drive,
		conversation.NewResponder(repo, completer, bot.Persona, bot.MaxContextTurns, bot.Model.Temperature),
	)

	srv := server.New(whatsapp.NewClient(cfg.WhatsApp), pipeline, cfg.WhatsApp)
	if err := srv.Run(cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("webhook server stopped")
	}
}
