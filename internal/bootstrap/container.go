package bootstrap

import (
	"context"
	"log"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/handler"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/implementation"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/ai/classifier"
	"ai-assistant-be/pkg/ai/pipeline"
	"ai-assistant-be/pkg/ai/session"
	"ai-assistant-be/pkg/extract"
	"ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/news"

	pktNats "ai-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const frameTopic = "assistant.session_frames"

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	ArchiveService   service.IArchiveService
	AssistantService service.IAssistantService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer builds the object graph. db may be nil, in which case the
// turn archive is disabled.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 1024},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var (
		natsPub *pktNats.Publisher
		natsSub *pktNats.Subscriber
	)
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// 4. Collaborators
	llmProvider, err := factory.NewLLMProvider(llmSettings(cfg))
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var newsClient news.Client = news.NewNewsAPIClient(cfg.News.BaseURL, cfg.Keys.NewsAPI)
	if rdb != nil {
		newsClient = news.NewCachedClient(newsClient, rdb, cfg.News.CacheTTL, sysLogger)
	}

	extractor := extract.NewHTTPExtractor(cfg.Extract.ImageURL, cfg.Extract.DocumentURL)

	// 5. Pipelines
	pipelines := session.Pipelines{
		Chat: pipeline.NewDirectChat(llmProvider, pipeline.NewOfflineResponder(), pipeline.ChatConfig{
			OfflineFallback: cfg.Assistant.OfflineFallback,
			CountdownFrom:   cfg.Assistant.ThinkingCountdown,
		}, sysLogger),
		Brainstorm: pipeline.NewBrainstorm(llmProvider, sysLogger),
		News:       pipeline.NewNews(newsClient, sysLogger),
		Upload:     pipeline.NewUpload(extractor, extractor, sysLogger),
	}

	// 6. Services
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	publisherService := service.NewPublisherService(frameTopic, pubSub, sysLogger)
	consumerService := service.NewConsumerService(pubSub, frameTopic, wsHub, wsLogger)

	var eventPublisher service.EventPublisher
	if natsPub != nil && db != nil {
		eventPublisher = natsPub
	}

	assistantService := service.NewAssistantService(
		memory.NewSessionRepository(cfg.Assistant.SessionTTL),
		service.AssistantOptions{
			Session: session.Config{
				NoticeDebounce: cfg.Assistant.NoticeDebounce,
				RevealInterval: cfg.Assistant.RevealInterval,
				RevealMaxSteps: cfg.Assistant.RevealMaxSteps,
				RequestTimeout: cfg.Assistant.RequestTimeout,
			},
			Pipelines:           pipelines,
			Classifier:          classifier.New(classifier.KeywordNewsDetector{}),
			RequireLogin:        cfg.Assistant.RequireLogin,
			SubmitRatePerMinute: cfg.Assistant.SubmitRatePerMinute,
			SubmitBurst:         cfg.Assistant.SubmitBurst,
		},
		publisherService,
		eventPublisher,
		sysLogger,
	)

	var archiveService service.IArchiveService
	if db != nil && natsSub != nil {
		archiveService = service.NewArchiveService(
			implementation.NewTurnArchiveRepository(db),
			natsSub,
			sysLogger,
		)
	} else {
		log.Printf("[INFO] Turn archive disabled (needs DB_CONNECTION_STRING and NATS_URL)")
	}

	// 7. Handlers & Controllers
	c.AssistantController = controller.NewAssistantController(assistantService, archiveService, cfg.App.JWTSecret)
	c.StreamHandler = handler.NewStreamHandler(assistantService, wsHub, cfg.App.JWTSecret, cfg.Assistant.RequireLogin, wsLogger)
	c.WebSocketHub = wsHub
	c.ConsumerService = consumerService
	c.ArchiveService = archiveService
	c.AssistantService = assistantService

	return c
}

func llmSettings(cfg *config.Config) factory.Settings {
	s := factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.LLMBaseURL,
	}
	switch cfg.Ai.LLMProvider {
	case "openai":
		s.APIKey = cfg.Keys.OpenAI
	case "anthropic":
		s.APIKey = cfg.Keys.Anthropic
	default:
		if s.BaseURL == "" {
			s.BaseURL = cfg.Ai.OllamaBaseURL
		}
	}
	return s
}

// Close stops live sessions and releases connections in reverse order.
func (c *Container) Close() {
	if c.ArchiveService != nil {
		c.ArchiveService.Stop()
	}
	c.AssistantService.Shutdown()
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
