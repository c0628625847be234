package rag

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

const (
	defaultChunkSize    = 500
	defaultChunkOverlap = 50
)

// Chunk is one indexable window of a document.
type Chunk struct {
	ID     string
	Source string
	Type   string
	Index  int
	Text   string
}

// Chunker splits documents into overlapping windows whose boundaries fall on
// sentence terminators. A single sentence longer than the window size is
// hard-split.
type Chunker struct {
	size      int
	overlap   int
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewChunker() (*Chunker, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("create sentence tokenizer: %w", err)
	}

	return &Chunker{
		size:      defaultChunkSize,
		overlap:   defaultChunkOverlap,
		tokenizer: tokenizer,
	}, nil
}

// Split chunks a document. Chunk ids mix the source name with a hash of the
// chunk text, so splitting the same content twice produces the same ids.
func (c *Chunker) Split(doc Document) []Chunk {
	sents := c.sentences(doc.Content)
	if len(sents) == 0 {
		return nil
	}

	var chunks []Chunk
	var window []string
	windowLen := 0

	flush := func() {
		if len(window) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(window, " "))
		if text == "" {
			window = window[:0]
			windowLen = 0
			return
		}
		chunks = append(chunks, Chunk{
			ID:     chunkID(doc.Source, len(chunks), text),
			Source: doc.Source,
			Type:   doc.Type,
			Index:  len(chunks),
			Text:   text,
		})

		// Seed the next window with trailing sentences up to the overlap.
		var carry []string
		carryLen := 0
		for i := len(window) - 1; i >= 0 && carryLen < c.overlap; i-- {
			carry = append([]string{window[i]}, carry...)
			carryLen += len(window[i]) + 1
		}
		if carryLen >= windowLen {
			carry = nil
			carryLen = 0
		}
		window = carry
		windowLen = carryLen
	}

	for _, sent := range sents {
		for _, piece := range hardSplit(sent, c.size) {
			if windowLen > 0 && windowLen+len(piece)+1 > c.size {
				flush()
			}
			window = append(window, piece)
			windowLen += len(piece) + 1
		}
	}
	flush()

	return chunks
}

func (c *Chunker) sentences(text string) []string {
	var out []string
	for _, s := range c.tokenizer.Tokenize(text) {
		if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// hardSplit cuts a sentence that alone exceeds the window size, preferring
// word boundaries.
func hardSplit(sent string, size int) []string {
	if len(sent) <= size {
		return []string{sent}
	}

	words := strings.Fields(sent)
	var parts []string
	var buf strings.Builder
	for _, word := range words {
		if buf.Len() > 0 && buf.Len()+len(word)+1 > size {
			parts = append(parts, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(word)
	}
	if buf.Len() > 0 {
		parts = append(parts, buf.String())
	}
	return parts
}

func chunkID(source string, index int, text string) string {
	sum := sha256.Sum256([]byte(text))
	base := strings.TrimSuffix(source, ".md")
	return fmt.Sprintf("%s_chunk_%d_%s", base, index, hex.EncodeToString(sum[:6]))
}
