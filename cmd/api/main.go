package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"notebase/internal/config"
	"notebase/internal/filestore"
	"notebase/internal/http"
	"notebase/internal/ingest"
	"notebase/internal/llm"
	"notebase/internal/rag"
	"notebase/internal/scrape"
	"notebase/internal/search"
	"notebase/internal/storage"
	"notebase/internal/usage"
	"notebase/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	itemRepo := storage.NewItemRepo(db)
	notebookRepo := storage.NewNotebookRepo(db)
	usageRepo := storage.NewUsageRepo(db)

	files, err := filestore.NewFS(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload store: %v", err)
	}

	ctx := context.Background()

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.VectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)

	embedder := llm.NewEmbeddingsClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, cfg.VectorSize)
	chatClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel)
	meter := usage.NewMeter(usage.DefaultPrices(), usageRepo)

	ingestSvc := ingest.NewService(
		itemRepo,
		vectorStore,
		cfg.QdrantCollection,
		embedder,
		meter,
		files,
		scrape.NewFetcher(),
	)

	ranker := search.NewRanker(itemRepo, vectorStore, cfg.QdrantCollection, embedder, meter)
	engine := rag.NewEngine(notebookRepo, itemRepo, vectorStore, cfg.QdrantCollection, embedder, chatClient, meter)
	slog.Info("Retrieval stack initialized", "embedding_model", cfg.EmbeddingModel, "chat_model", cfg.ChatModel)

	router := http.NewRouter(&http.Deps{
		DB:          db,
		Items:       itemRepo,
		Notebooks:   notebookRepo,
		Usage:       usageRepo,
		Ingest:      ingestSvc,
		Ranker:      ranker,
		Engine:      engine,
		CheckVector: vectorStore.Health,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
