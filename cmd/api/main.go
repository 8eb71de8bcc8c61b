package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"chatstage/internal/adapter/api"
	"chatstage/internal/adapter/api/handler"
	"chatstage/internal/adapter/api/router"
	"chatstage/internal/adapter/repository"
	"chatstage/internal/infrastructure/websocket"
	"chatstage/internal/scheduler"
	"chatstage/internal/seed"
	"chatstage/internal/store"
	syncer "chatstage/internal/sync"
	"chatstage/internal/usecase"
	"chatstage/pkg/config"
	"chatstage/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	marketplaceSeed, err := seed.Marketplace()
	if err != nil {
		log.Fatalf("Failed to parse bundled marketplace dataset: %v", err)
	}
	vintedSeed, err := seed.Vinted()
	if err != nil {
		log.Fatalf("Failed to parse bundled vinted dataset: %v", err)
	}

	marketplaceStore := store.New(marketplaceSeed.Conversations)
	vintedStore := store.New(vintedSeed.Conversations)

	tasks := scheduler.New()
	defer tasks.CancelAll()

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	chatUseCase := usecase.NewChatUseCase(marketplaceStore, tasks)
	vintedUseCase := usecase.NewVintedUseCase(vintedStore, vintedSeed.Balance)
	editorUseCase := usecase.NewEditorUseCase(marketplaceStore, vintedStore, marketplaceSeed.CurrentUser, tasks, wsManager)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	generatorUseCase := usecase.NewGeneratorUseCase(vintedStore, rng, time.Now)

	// The remote mirror is optional: with no project configured the app runs
	// local-only and unsynced rather than refusing to start.
	if cfg.FirebaseProject != "" {
		var opt option.ClientOption
		if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
			opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
		} else {
			serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
			if serviceAccountPath == "" {
				serviceAccountPath = "./service-account.json"
			}
			opt = option.WithCredentialsFile(serviceAccountPath)
		}

		firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}

		firestoreClient, err := firebaseApp.Firestore(ctx)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient, cfg.SyncCollection, cfg.SyncDocument)
		s := syncer.NewSyncer(vintedStore, conversationRepo, vintedSeed.Conversations, syncer.Options{
			GuardDelay: cfg.SyncGuardDelay,
			SaveLimit:  cfg.SyncSaveLimit,
		})
		go s.Run(ctx)
	} else {
		logger.Warn("FIREBASE_PROJECT_ID not set, running local-only without remote sync")
	}

	chatHandler := handler.NewChatHandler(chatUseCase)
	vintedHandler := handler.NewVintedHandler(vintedUseCase)
	editorHandler := handler.NewEditorHandler(editorUseCase, generatorUseCase)
	menuHandler := handler.NewMenuHandler()
	wsHandler := handler.NewWebSocketHandler(wsManager, editorUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	router.Setup(e, chatHandler, vintedHandler, editorHandler, menuHandler, wsHandler)

	logger.Info("chatstage listening on :%s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
