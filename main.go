package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/atendai-core/server/internal/agent/engine"
	"github.com/atendai-core/server/internal/agent/model"
	"github.com/atendai-core/server/internal/agent/repo"
	"github.com/atendai-core/server/internal/agent/sessions"
	"github.com/atendai-core/server/internal/agent/tools"
	"github.com/atendai-core/server/internal/core"
	"github.com/atendai-core/server/internal/speech"
	"github.com/atendai-core/server/internal/ticket"
	"github.com/atendai-core/server/internal/transport"
	logx "github.com/atendai-core/server/pkg/logger"
	pkgredis "github.com/atendai-core/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the engine demo,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	MediaDir string `envconfig:"MEDIA_DIR" default:"/tmp"`

	// Infrastructure
	Redis pkgredis.Config

	// Bot configuration surface
	Bot model.Settings
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Env)})

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
	}
	defer rdb.Close()
	logx.Info().Msg("Connected to Redis")

	store := repo.NewRedisTicketStore(rdb)
	prompts := repo.NewRedisPrompts(rdb)
	broadcaster := repo.NewRedisBroadcaster(rdb)

	transcriber, err := speech.NewGeminiTranscriber(ctx, cfg.Bot.APIKey, "", cfg.Bot.Model)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build transcriber")
	}

	eng := engine.New(engine.Config{
		Store:       store,
		Prompts:     prompts,
		Sessions:    sessions.NewRegistry(sessions.GeminiFactory(tools.Specs())),
		Messenger:   transport.NewLoggingMessenger(),
		Broadcaster: broadcaster,
		Transcriber: transcriber,
		Synthesizer: speech.NewAzureSynthesizer(cfg.Bot.VoiceKey, cfg.Bot.VoiceRegion, cfg.Bot.Voice),
		MediaDir:    cfg.MediaDir,
	})

	if err := seedDemo(ctx, store); err != nil {
		logx.Fatal().Err(err).Msg("Failed to seed demo data")
	}
	if err := prompts.Set(ctx, cfg.Bot.Name, "Você é o assistente virtual da central de atendimento. Seja cordial e objetivo."); err != nil {
		logx.Fatal().Err(err).Msg("Failed to seed prompt override")
	}

	tk := &ticket.Ticket{ID: 1001, CompanyID: 1, ContactID: 501}
	contact := &ticket.Contact{ID: 501, Name: "Maria Clara", Endpoint: "demo:501"}
	if err := store.SaveTicket(ctx, tk); err != nil {
		logx.Fatal().Err(err).Msg("Failed to save demo ticket")
	}

	demoMessages := []string{
		"Olá, estou com um problema na minha fatura.",
		"Quero cancelar meu plano.",
	}
	for _, body := range demoMessages {
		inbound := model.Inbound{Kind: ticket.MediaText, Body: body}
		if err := eng.HandleMessage(ctx, &cfg.Bot, inbound, tk, contact); err != nil {
			logx.Error().Err(err).Msg("Turn failed")
			continue
		}
		if err := store.AddMessage(ctx, ticket.Message{
			TicketID:  tk.ID,
			Origin:    ticket.OriginCustomer,
			MediaKind: ticket.MediaText,
			Body:      body,
		}); err != nil {
			logx.Error().Err(err).Msg("Failed to record demo message")
		}
	}

	final, err := store.FindTicket(ctx, tk.ID)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to reload demo ticket")
	} else {
		logx.Info().Int("queueID", final.QueueID).Int("userID", final.UserID).Msg("Final ticket state")
	}
	logx.Info().Msg("Demo turns completed")
}

func seedDemo(ctx context.Context, store *repo.RedisTicketStore) error {
	queues := []ticket.Queue{
		{ID: 1, CompanyID: 1, Name: "Suporte Técnico", GreetingMessage: "Você está falando com o Suporte Técnico."},
		{ID: 2, CompanyID: 1, Name: "Cancelamentos", GreetingMessage: "Setor de cancelamentos, um momento."},
		{ID: 3, CompanyID: 1, Name: "Financeiro"},
	}
	for _, q := range queues {
		if err := store.AddQueue(ctx, q); err != nil {
			return err
		}
	}
	tags := []ticket.Tag{
		{ID: 1, CompanyID: 1, Name: "VIP"},
		{ID: 2, CompanyID: 1, Name: "Urgente"},
	}
	for _, t := range tags {
		if err := store.AddTag(ctx, t); err != nil {
			return err
		}
	}
	users := []ticket.User{
		{ID: 1, CompanyID: 1, Name: "Ana"},
		{ID: 2, CompanyID: 1, Name: "Bruno"},
	}
	for _, u := range users {
		if err := store.AddUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}
