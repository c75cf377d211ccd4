// Package gemini implements question answering and embeddings on top of
// the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/jiangzhuo/takaichirag"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// DefaultNumChunks is the number of retrieved chunks grounding an answer
// when the caller does not set one.
const DefaultNumChunks = 5

// excerptRunes is the length of the excerpt quoted per cited source.
const excerptRunes = 80

// systemPrompt instructs the model to answer in Japanese from the
// retrieved context only.
const systemPrompt = "あなたは高市早苗議員の公式ウェブサイトから収集された情報に基づいて回答する" +
	"専門的なアシスタントです。以下の点に注意してください：\n" +
	"1. 提供された文脈のみに基づいて回答すること\n" +
	"2. 正確で事実に基づいた情報を提供すること\n" +
	"3. 文脈に情報がない場合は、その旨を明確に伝えること\n" +
	"4. 丁寧で分かりやすい日本語で回答すること"

// Ensure Asker implements takaichirag.Asker at compile time.
var _ takaichirag.Asker = (*Asker)(nil)

// Asker answers questions over the indexed statements using Gemini,
// grounding each answer on chunks retrieved through the search service.
type Asker struct {
	client *genai.Client
	search takaichirag.SearchService
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client, search takaichirag.SearchService) *Asker {
	return &Asker{client: client, search: search}
}

// Ask answers a natural language question, citing the retrieved sources.
func (a *Asker) Ask(ctx context.Context, question string, opts takaichirag.AskOptions) (*takaichirag.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, takaichirag.Errorf(takaichirag.EINVALID, "question required")
	}

	numChunks := opts.NumChunks
	if numChunks <= 0 {
		numChunks = DefaultNumChunks
	}

	results, err := a.search.Search(ctx, question, takaichirag.SearchOptions{Limit: numChunks})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, takaichirag.Errorf(takaichirag.ENOTFOUND, "no indexed content matches the question")
	}

	prompt := BuildUserPrompt(results, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, takaichirag.Errorf(takaichirag.EUNAVAILABLE, "generate answer: %s", err)
	}
	if result == nil {
		return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "gemini returned nil result")
	}

	return &takaichirag.Answer{
		Text:    result.Text(),
		Sources: BuildSources(results),
	}, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the retrieved context
// and question.
func BuildUserPrompt(results []takaichirag.SearchResult, question string) string {
	var sb strings.Builder
	sb.WriteString("以下は関連する文脈情報です：\n\n<context>\n")
	for i, r := range results {
		title := r.Chunk.Title
		if title == "" {
			title = r.Chunk.PageURL
		}
		sb.WriteString("<source>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
		fmt.Fprintf(&sb, "<category>%s</category>\n", r.Chunk.Category.Label())
		if r.Chunk.PublishDate != "" {
			fmt.Fprintf(&sb, "<date>%s</date>\n", r.Chunk.PublishDate)
		}
		fmt.Fprintf(&sb, "<url>%s</url>\n", r.Chunk.PageURL)
		fmt.Fprintf(&sb, "<content>%s</content>\n", r.Chunk.Content)
		sb.WriteString("</source>\n")
	}
	sb.WriteString("</context>\n\n")
	fmt.Fprintf(&sb, "質問：%s\n\n上記の文脈に基づいて回答してください。", question)
	return sb.String()
}

// BuildSources converts search results into cited sources, keeping one
// entry per page in best-score order.
func BuildSources(results []takaichirag.SearchResult) []takaichirag.Source {
	seen := make(map[string]bool)
	sources := make([]takaichirag.Source, 0, len(results))
	for _, r := range results {
		if seen[r.Chunk.PageURL] {
			continue
		}
		seen[r.Chunk.PageURL] = true
		sources = append(sources, takaichirag.Source{
			URL:         r.Chunk.PageURL,
			Title:       r.Chunk.Title,
			Category:    r.Chunk.Category,
			PublishDate: r.Chunk.PublishDate,
			Excerpt:     excerpt(r.Chunk.Content),
			Score:       r.Score,
		})
	}
	return sources
}

// excerpt returns the leading runes of content for display.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptRunes {
		return content
	}
	return string(runes[:excerptRunes]) + "…"
}
