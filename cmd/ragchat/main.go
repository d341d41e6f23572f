package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"ragchat/internal/ai"
	"ragchat/internal/config"
	"ragchat/internal/embedcache"
	"ragchat/internal/pdftext"
	"ragchat/internal/repo"
	"ragchat/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ragchat",
		Short: "single-PDF retrieval-augmented chat",
	}

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "extract the configured PDF, embed its chunks and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			return runIngest(cmd.Context(), cfg)
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "answer questions about the ingested document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(ingestCmd, chatCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init("", cfg.LogLevel, 0, 0, 0, true)
	logutil.GetLogger(context.Background()).Info("config loaded",
		zap.String("provider", cfg.ActiveProvider),
		zap.String("embedding_model", cfg.EmbeddingModel),
		zap.String("collection", cfg.CollectionName),
	)
	return cfg, nil
}

func newEmbedder(cfg *config.Config) (ai.IEmbedder, error) {
	provider, err := ai.NewEmbedProvider(cfg.ActiveProvider, map[string]string{"api_key": cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("init embedding provider: %w", err)
	}
	embedder := ai.NewEmbedder(provider, cfg.EmbeddingModel, cfg.RequestTimeout)
	return embedcache.WrapLruCacheToEmbedder(embedder, 1024, time.Hour), nil
}

func newGenerator(cfg *config.Config) (ai.IGenerator, error) {
	provider, err := ai.NewChatProvider(cfg.ActiveProvider, map[string]string{"api_key": cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("init answering provider: %w", err)
	}
	return ai.NewGenerator(provider, cfg.LLMModel, cfg.RequestTimeout), nil
}

func runIngest(ctx context.Context, cfg *config.Config) error {
	text, err := pdftext.ExtractText(cfg.PDFPath)
	if err != nil {
		return err
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	db, err := repo.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	store := repo.NewVectorRepo(db)
	ingest := service.NewIngestService(embedder, store, cfg.CollectionName, cfg.ChunkSize, cfg.ChunkOverlap, cfg.EmbedBatchSize)

	fmt.Printf("Ingerindo %s na coleção %q...\n", cfg.PDFPath, cfg.CollectionName)
	count, err := ingest.IngestText(ctx, text)
	if err != nil {
		return err
	}
	fmt.Printf("Ingestão concluída: %d chunks gravados.\n", count)
	return nil
}

func runChat(ctx context.Context, cfg *config.Config) error {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	generator, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	db, err := repo.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	store := repo.NewVectorRepo(db)
	retriever := service.NewRetriever(embedder, store)
	chat := service.NewChatService(retriever, generator, cfg.CollectionName, cfg.TopK)

	fmt.Println("Faça sua pergunta (digite 'sair' para encerrar):")
	fmt.Println()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("PERGUNTA: ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			fmt.Println("Digite uma pergunta válida.")
			fmt.Println()
			continue
		}
		switch strings.ToLower(question) {
		case "sair", "exit", "quit":
			fmt.Println("Encerrando.")
			return nil
		}

		answer, err := chat.Ask(ctx, question)
		if err != nil {
			// One failed turn must not take down the session.
			logutil.GetLogger(ctx).Error("turn failed", zap.Error(err))
			fmt.Printf("Falha ao responder: %v\n\n", err)
			continue
		}
		fmt.Printf("RESPOSTA: %s\n\n", answer.Text)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	fmt.Println("Encerrando.")
	return nil
}
