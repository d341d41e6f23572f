package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"ragchat/internal/ai"
	"ragchat/internal/model"
)

// ChatService answers one question per call: retrieve, build the prompt,
// ask the model. Calls are independent; there is no conversation memory.
type ChatService struct {
	retriever  *Retriever
	generator  ai.IGenerator
	collection string
	topK       int
}

func NewChatService(retriever *Retriever, generator ai.IGenerator, collection string, topK int) *ChatService {
	return &ChatService{
		retriever:  retriever,
		generator:  generator,
		collection: collection,
		topK:       topK,
	}
}

func (s *ChatService) Ask(ctx context.Context, question string) (model.Answer, error) {
	logger := logutil.GetLogger(ctx)
	query := model.Query{Text: question}
	rc, err := s.retriever.Retrieve(ctx, query, s.collection, s.topK)
	if err != nil {
		logger.Error("retrieval failed", zap.Error(err))
		return model.Answer{}, err
	}
	if len(rc.Chunks) == 0 {
		// Nothing retrieved means the grounded answer is fixed; skip the
		// model call instead of paying for a guaranteed abstention.
		logger.Info("no context retrieved, abstaining")
		return model.Answer{Text: AbstentionAnswer}, nil
	}
	prompt := BuildPrompt(rc, query)
	text, err := s.generator.Generate(ctx, prompt.Render())
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		return model.Answer{}, err
	}
	return model.Answer{Text: text}, nil
}
