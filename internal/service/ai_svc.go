package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"kol_dash_v1_202608/internal/model"
)

// CampaignBrief AI 生成的投放简报
type CampaignBrief struct {
	Pitch       string   `json:"pitch"`        // 给达人的合作邀约文案
	ContentIdea string   `json:"content_idea"` // 内容创意建议
	Hashtags    []string `json:"hashtags"`
}

// AIService 投放文案生成（Gemini）
type AIService struct {
	ApiKey       string
	ModelVersion string // 如 "gemini-2.5-flash"
}

// NewAIService 创建 AI 服务
func NewAIService(apiKey string, modelVersion string) *AIService {
	if modelVersion == "" {
		modelVersion = "gemini-2.5-flash"
	}
	return &AIService{
		ApiKey:       apiKey,
		ModelVersion: modelVersion,
	}
}

// GenerateCampaignBrief 根据活动和达人信息生成合作邀约与内容创意
func (s *AIService) GenerateCampaignBrief(ctx context.Context, campaign *model.Campaign, kol *model.KOL, extraInstruction string) (*CampaignBrief, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(s.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("Gemini 初始化失败: %v", err)
	}
	defer client.Close()

	modelAI := client.GenerativeModel(s.ModelVersion)
	modelAI.ResponseMIMEType = "application/json"

	prompt := fmt.Sprintf(`
        You are an influencer marketing manager in Indonesia.
        Write an outreach pitch for this collaboration:

        Campaign: "%s" (platform: %s, objective: %s, budget: %d IDR)
        Creator: %s (tier: %s, categories: %s, followers: %d)

        Requirements:
        1. Pitch: warm, professional, in Bahasa Indonesia, max 150 words.
        2. Content idea: one concrete video concept matching the creator's niche.
        3. Hashtags: 5 relevant hashtags.
    `, campaign.Name, campaign.Platform, campaign.Objective, campaign.Budget,
		kol.Name, kol.Tier, strings.Join(kol.Categories, ", "), kol.Followers)

	if extraInstruction != "" {
		prompt += fmt.Sprintf("\nAdditional Instructions: %s", extraInstruction)
	}

	prompt += `
        Output Schema (JSON):
        {
            "pitch": "string",
            "content_idea": "string",
            "hashtags": ["string", "string"]
        }
    `

	resp, err := modelAI.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("AI 生成失败: %v", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("AI 返回为空")
	}

	var rawJSON string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			rawJSON = string(txt)
			break
		}
	}

	// 清洗可能存在的 markdown 符号 (```json ... ```)
	rawJSON = strings.TrimPrefix(rawJSON, "```json")
	rawJSON = strings.TrimPrefix(rawJSON, "```")
	rawJSON = strings.TrimSuffix(rawJSON, "```")

	var result CampaignBrief
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %v | 原始数据: %s", err, rawJSON)
	}

	return &result, nil
}
