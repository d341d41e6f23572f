package service

import (
	"fmt"
	"strings"

	"ragchat/internal/model"
)

// AbstentionAnswer is the only sanctioned "no answer" output. It reaches
// the user either because the model follows the prompt rules or through
// the empty-context short-circuit in ChatService; never through error
// handling.
const AbstentionAnswer = "Não tenho informações necessárias para responder sua pergunta."

// chunkDelimiter separates retrieved chunks inside the context block so
// the model can tell chunk boundaries apart.
const chunkDelimiter = "\n\n"

var systemInstructions = fmt.Sprintf(`Você é um assistente que responde perguntas exclusivamente com base no CONTEXTO fornecido.

REGRAS:
- Responda somente com base no CONTEXTO.
- Nunca utilize conhecimento externo ao CONTEXTO.
- Nunca produza opiniões ou inferências que não estejam explícitas no CONTEXTO.
- Se a resposta não estiver explícita no CONTEXTO, responda exatamente:
  "%s"
- Nunca mencione o CONTEXTO, o documento de origem ou a etapa de busca ao responder.`, AbstentionAnswer)

// BuildPrompt assembles the restrictive prompt from the retrieved context
// and the question. Chunk texts are joined in the order given; an empty
// context still produces a well-formed prompt, whose rules drive the model
// to abstain.
func BuildPrompt(rc model.RetrievedContext, question model.Query) model.Prompt {
	texts := make([]string, 0, len(rc.Chunks))
	for _, chunk := range rc.Chunks {
		texts = append(texts, chunk.Text)
	}
	return model.Prompt{
		System:   systemInstructions,
		Context:  strings.Join(texts, chunkDelimiter),
		Question: question.Text,
	}
}
