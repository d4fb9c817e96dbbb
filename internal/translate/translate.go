// Package translate derives a recipe in a target language from the canonical
// base recipe. Translation is best-effort: every failure path returns the
// original recipe unchanged, and callers detect the fallback by comparing the
// language tag.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"github.com/svatrous/instept-backend/internal/prompts"
	"github.com/svatrous/instept-backend/internal/recipedb"
)

// ProviderOpenAI selects the OpenAI chat completions backend instead of the
// default genai one.
const ProviderOpenAI = "openai"

// textModel issues one structured-JSON completion.
type textModel interface {
	complete(ctx context.Context, instruction string, content string) (string, error)
}

// NewTranslator returns a Translator using the backend selected by provider.
func NewTranslator(genAI *genai.Client, oai *openai.Client, model string, provider string) *Translator {
	var backend textModel
	if provider == ProviderOpenAI {
		backend = &openaiTextModel{client: oai, model: model}
	} else {
		backend = &genaiTextModel{client: genAI, model: model}
	}
	return &Translator{model: backend}
}

type Translator struct {
	model textModel
}

// payloadStep carries an explicit id through translation so imagery can be
// re-stitched even if the model reorders steps.
type payloadStep struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// payload is the translatable subset of a recipe.
type payload struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Time        string               `json:"time"`
	Difficulty  string               `json:"difficulty"`
	Calories    string               `json:"calories"`
	Ingredients []recipedb.Ingredient `json:"ingredients"`
	Steps       []payloadStep        `json:"steps"`
}

// Translate returns base translated into language. On any remote or parse
// failure the original recipe is returned unchanged.
func (t *Translator) Translate(ctx context.Context, base *recipedb.Recipe, language string) *recipedb.Recipe {
	in := payload{
		Title:       base.Title,
		Description: base.Description,
		Category:    base.Category,
		Time:        base.Time,
		Difficulty:  base.Difficulty,
		Calories:    base.Calories,
		Ingredients: base.Ingredients,
		Steps:       make([]payloadStep, len(base.Steps)),
	}
	for i, step := range base.Steps {
		in.Steps[i] = payloadStep{ID: i, Description: step.Description}
	}
	inJSON, err := json.Marshal(in)
	if err != nil {
		slog.ErrorContext(ctx, "translate: marshalling recipe", "error", err)
		return base
	}

	text, err := t.model.complete(ctx, prompts.TranslateRecipe(language), string(inJSON))
	if err != nil {
		slog.WarnContext(ctx, "translate: completion failed", "language", language, "error", err)
		return base
	}

	out, err := parsePayload(text)
	if err != nil {
		slog.WarnContext(ctx, "translate: parsing translated recipe", "language", language, "error", err)
		return base
	}

	return stitch(base, out, language)
}

// parsePayload parses a model response, tolerating markdown fences and a
// list-shaped response by taking the first object-shaped element.
func parsePayload(text string) (*payload, error) {
	raw := []byte(stripFences(text))
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, fmt.Errorf("translate: unmarshalling response list: %w", err)
		}
		for _, elem := range elems {
			if e := bytes.TrimSpace(elem); len(e) > 0 && e[0] == '{' {
				raw = e
				break
			}
		}
	}

	var out payload
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("translate: unmarshalling response: %w", err)
	}
	if out.Title == "" && len(out.Steps) == 0 {
		return nil, fmt.Errorf("translate: response has no recipe content")
	}
	return &out, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// stitch builds the translated recipe, forcibly carrying over every machine
// field from the base. Step imagery is matched by the step id echoed by the
// model, with positional fallback, so translated text can never drop or
// reorder images.
func stitch(base *recipedb.Recipe, out *payload, language string) *recipedb.Recipe {
	translated := *base
	translated.Title = out.Title
	translated.Description = out.Description
	translated.Language = language
	if out.Category != "" {
		translated.Category = out.Category
	}
	if out.Time != "" {
		translated.Time = out.Time
	}
	if out.Difficulty != "" {
		translated.Difficulty = out.Difficulty
	}
	if out.Calories != "" {
		translated.Calories = out.Calories
	}
	if len(out.Ingredients) > 0 {
		translated.Ingredients = out.Ingredients
	}

	steps := make([]recipedb.Step, len(base.Steps))
	copy(steps, base.Steps)
	for i, step := range out.Steps {
		idx := step.ID
		if idx < 0 || idx >= len(steps) {
			idx = i
		}
		if idx < 0 || idx >= len(steps) {
			continue
		}
		steps[idx].Description = step.Description
	}
	translated.Steps = steps

	return &translated
}

type genaiTextModel struct {
	client *genai.Client
	model  string
}

func (m *genaiTextModel) complete(ctx context.Context, instruction string, content string) (string, error) {
	res, err := m.client.Models.GenerateContent(ctx, m.model, []*genai.Content{
		genai.NewContentFromText(content, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleModel),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    recipedb.TranslationSchema,
	})
	if err != nil {
		return "", fmt.Errorf("translate: generating content: %w", err)
	}
	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("translate: unexpected response from generate ai: %v", res)
	}
	return text, nil
}

type openaiTextModel struct {
	client *openai.Client
	model  string
}

func (m *openaiTextModel) complete(ctx context.Context, instruction string, content string) (string, error) {
	res, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(m.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instruction),
			openai.UserMessage(content),
		},
	})
	if err != nil {
		return "", fmt.Errorf("translate: creating chat completion: %w", err)
	}
	if len(res.Choices) == 0 || res.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("translate: unexpected response from openai: %v", res)
	}
	return res.Choices[0].Message.Content, nil
}
