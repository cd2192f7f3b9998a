package main

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gorilla/mux"

	"ms-reminders/internal/ai"
	"ms-reminders/internal/auth"
	"ms-reminders/internal/config"
	"ms-reminders/internal/dialogue"
	"ms-reminders/internal/dispatch"
	"ms-reminders/internal/handlers"
	appkafka "ms-reminders/internal/kafka"
	"ms-reminders/internal/push"
	"ms-reminders/internal/scheduler"
	"ms-reminders/internal/store"
)

func main() {
	cfg := config.Load()

	httpClient := &http.Client{Timeout: 10 * time.Second}

	// Initialize record store
	db, err := store.New(store.DatabaseConfig{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		DBName:   cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Push dispatcher
	dispatcher := push.NewExpoClient(httpClient, cfg.ExpoPushURL)

	// Delivery audit trail if Kafka is configured
	var auditor scheduler.Auditor
	if cfg.KafkaURL != "" {
		log.Printf("Publishing delivery records to Kafka topic %s at %s", cfg.DeliveryKafkaTopic, cfg.KafkaURL)
		producer := appkafka.NewDeliveryProducer(cfg.KafkaURL, cfg.DeliveryKafkaTopic)
		defer producer.Close()
		auditor = producer
	} else {
		log.Println("Kafka URL not configured, skipping delivery audit trail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Buffered dispatch path if a queue is configured
	var enqueuer scheduler.Enqueuer
	if cfg.SQSDispatchQueueURL != "" {
		sqsClient := newSQSClient(cfg)
		enqueuer = dispatch.NewEnqueuer(sqsClient, cfg.SQSDispatchQueueURL)

		log.Printf("Starting dispatch processor for queue: %s", cfg.SQSDispatchQueueURL)
		processor := dispatch.NewProcessor(sqsClient, dispatcher, auditor, cfg.SQSDispatchQueueURL)
		var dispatchWg sync.WaitGroup
		dispatchWg.Add(1)
		go func() {
			defer dispatchWg.Done()
			if err := processor.ProcessMessages(ctx); err != nil {
				log.Printf("Dispatch processor stopped: %v", err)
			}
		}()
		// We don't wait for dispatchWg.Wait() so the scheduler can continue
	} else {
		log.Println("Dispatch queue URL not configured, scheduler will push inline")
	}

	// Scheduler runner
	runner := scheduler.NewRunner(db, dispatcher, enqueuer, auditor, cfg.PollInterval)
	var runnerWg sync.WaitGroup
	runnerWg.Add(1)
	go func() {
		defer runnerWg.Done()
		if err := runner.Run(ctx); err != nil {
			log.Printf("Scheduler runner stopped: %v", err)
		}
	}()

	// Dialogue engine and AI message generator
	engine := dialogue.NewEngine()
	completionClient := ai.NewClient(httpClient, cfg.CompletionBaseURL, cfg.CompletionAPIKey, cfg.CompletionModel)
	generator := ai.NewGenerator(completionClient, db, cfg.RegenDailyLimit)

	setupHTTPServer(cfg, db, engine, generator)
}

func newSQSClient(cfg config.Config) *sqs.Client {
	awsOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		log.Println("Using AWS credentials from environment variables")
		awsOptions = append(awsOptions, awsconfig.WithCredentialsProvider(
			aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     cfg.AWSAccessKeyID,
					SecretAccessKey: cfg.AWSSecretAccessKey,
				}, nil
			}),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsOptions...)
	if err != nil {
		log.Fatalf("unable to load AWS SDK config, %v", err)
	}

	return sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.AWSEndpoint != "" {
			log.Printf("Using local endpoint for AWS services: %s", cfg.AWSEndpoint)
			o.BaseEndpoint = &cfg.AWSEndpoint
		}
	})
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(cfg config.Config, db *store.Store, engine *dialogue.Engine, generator *ai.Generator) {
	router := mux.NewRouter()

	// Apply CORS middleware to all routes
	router.Use(auth.CORSMiddleware(cfg))

	chatHandler := handlers.NewChatHandler(engine, db)
	reminderHandler := handlers.NewReminderHandler(db)
	deviceHandler := handlers.NewDeviceHandler(db)
	messageHandler := handlers.NewMessageHandler(generator, db)

	apiRouter := router.PathPrefix("/api/reminders/v1").Subrouter()
	apiRouter.Use(auth.Middleware)

	apiRouter.HandleFunc("/chat/turn", chatHandler.Turn).Methods("POST")

	apiRouter.HandleFunc("/reminders", reminderHandler.List).Methods("GET")
	apiRouter.HandleFunc("/reminders", reminderHandler.Create).Methods("POST")
	apiRouter.HandleFunc("/reminders/{id}", reminderHandler.Get).Methods("GET")
	apiRouter.HandleFunc("/reminders/{id}", reminderHandler.Update).Methods("PUT")
	apiRouter.HandleFunc("/reminders/{id}", reminderHandler.Delete).Methods("DELETE")
	apiRouter.HandleFunc("/reminders/{id}/message", messageHandler.Regenerate).Methods("POST")

	apiRouter.HandleFunc("/device/token", deviceHandler.RegisterToken).Methods("POST")
	apiRouter.HandleFunc("/device/permission", deviceHandler.UpdatePermission).Methods("PUT")

	// Probe endpoints (no authentication required)
	healthHandler := handlers.NewHealthHandler(db)
	router.HandleFunc("/healthz", healthHandler.HandleHealth).Methods("GET")
	router.HandleFunc("/readyz", healthHandler.HandleReadiness).Methods("GET")
	router.HandleFunc("/livez", healthHandler.HandleLiveness).Methods("GET")

	serverAddr := cfg.ServerHost + ":" + cfg.ServerPort
	log.Printf("Starting HTTP server on %s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	log.Fatal(server.ListenAndServe())
}
