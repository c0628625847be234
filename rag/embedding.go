package rag

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/philippgille/chromem-go"
)

const defaultEmbeddingModel = "text-embedding-3-small"

// NewOpenAIEmbedding embeds through an OpenAI-compatible endpoint. The model
// defaults to text-embedding-3-small.
func NewOpenAIEmbedding(client *openaisdk.Client, model string) chromem.EmbeddingFunc {
	if model == "" {
		model = defaultEmbeddingModel
	}

	return func(ctx context.Context, text string) ([]float32, error) {
		if client == nil {
			return nil, errors.New("embedding client is not configured")
		}

		resp, err := client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
			Input: openaisdk.EmbeddingNewParamsInputUnion{OfString: openaisdk.String(text)},
			Model: openaisdk.EmbeddingModel(model),
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			return nil, errors.New("embedding response is empty")
		}

		vec := make([]float32, len(resp.Data[0].Embedding))
		for i, v := range resp.Data[0].Embedding {
			vec[i] = float32(v)
		}
		return normalize(vec), nil
	}
}

const hashEmbeddingDim = 128

// NewHashEmbedding is a deterministic offline embedder: token hashes are
// accumulated into a fixed-size vector. Queries sharing words with a chunk
// land near it, which is enough for local runs and tests.
func NewHashEmbedding() chromem.EmbeddingFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, hashEmbeddingDim)
		for _, token := range strings.Fields(strings.ToLower(text)) {
			token = strings.Trim(token, ".,;:!?\"'()[]")
			if token == "" {
				continue
			}
			h := fnv.New32a()
			h.Write([]byte(token))
			vec[h.Sum32()%hashEmbeddingDim]++
		}
		return normalize(vec), nil
	}
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		vec[0] = 1
		return vec
	}

	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
