package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/hitoshi/mealdesk/internal/model"
)

// LLMClient はテキスト生成モデルへの呼び出しを抽象化するインターフェース。
// テストではモック実装を注入する。
type LLMClient interface {
	// GenerateContent はプロンプトを送信し、生成テキストを返す。
	GenerateContent(ctx context.Context, prompt string) (string, error)
	// Close は下層のクライアントを閉じる。
	Close() error
}

// geminiClient はGoogle Gemini APIを使用するLLMClient実装。
type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient はGemini APIクライアントを生成する。
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (LLMClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// GenerateContent はプロンプトをGeminiモデルに送信し、生成テキストを返す。
func (c *geminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("generated content is not text")
	}
	return string(text), nil
}

// Close は下層のGeminiクライアントを閉じる。
func (c *geminiClient) Close() error {
	return c.client.Close()
}

// LLMGenerator はLLMを使用するGenerator実装。
//
// ネットワーク・パース・形状の失敗は全て単一のGENERATION_FAILEDエラーとして
// 呼び出し側に伝播する。リトライやフォールバックの判断は呼び出し側の責務。
type LLMGenerator struct {
	client LLMClient
}

// NewLLMGenerator はLLMGeneratorを生成する。
func NewLLMGenerator(client LLMClient) *LLMGenerator {
	return &LLMGenerator{client: client}
}

// Generate はプロンプトを構築してLLMを呼び出し、応答を検証して返す。
func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*model.WeeklyMealPlan, error) {
	prompt := buildPrompt(input)

	raw, err := g.client.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, model.NewGenerationFailedError(err.Error())
	}

	jsonBody := extractJSON(raw)
	if jsonBody == "" {
		return nil, model.NewGenerationFailedError("応答にJSONが含まれていません")
	}

	plan := &model.WeeklyMealPlan{}
	if err := json.Unmarshal([]byte(jsonBody), plan); err != nil {
		return nil, model.NewGenerationFailedError("応答のJSONパースに失敗しました")
	}

	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	// 選択入力はLLM応答より信頼できるため、常に入力値で上書きする
	plan.Goals = model.PlanGoals{
		FitnessGoal: input.FitnessGoal,
		Cuisine:     input.Cuisine,
		DietType:    input.DietType,
	}

	return plan, nil
}

// compile-time interface check
var _ Generator = (*LLMGenerator)(nil)
