package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"spatialboard/internal/config"
)

// ReflectionService handles reflection and chat generation via the Gemini
// API. Both operations are one-shot: chat calls carry the pre-computed
// student context instead of prior turns.
type ReflectionService struct {
	config *config.AIConfig
	client *http.Client
}

func NewReflectionService(cfg *config.AIConfig) *ReflectionService {
	return &ReflectionService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Reflect produces a short academic reflection on one observed challenge.
// Nothing is persisted here.
func (s *ReflectionService) Reflect(ctx context.Context, studentName, challenge string) (string, error) {
	if !s.config.IsEnabled() {
		return s.offlineReflection(studentName, challenge), nil
	}
	return s.callGemini(ctx, s.config.Models.Reflect, s.buildReflectionPrompt(studentName, challenge))
}

// Ask answers one question grounded on the student's history context.
func (s *ReflectionService) Ask(ctx context.Context, studentContext, question string) (string, error) {
	if !s.config.IsEnabled() {
		return s.offlineAnswer(studentContext), nil
	}
	return s.callGemini(ctx, s.config.Models.Chat, s.buildChatPrompt(studentContext, question))
}

// callGemini makes a request to the Gemini API
func (s *ReflectionService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, body)
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// Prompt builders
func (s *ReflectionService) buildReflectionPrompt(studentName, challenge string) string {
	return fmt.Sprintf(`You are an experienced educator of spatial reasoning.
An instructor recorded a field observation about a student working on engineering-drawing exercises.

Student: %s
Observed challenge: %s

Write a short academic reflection (3-5 sentences) on this observation:
what the difficulty may indicate about the student's spatial thinking, and
one concrete suggestion for the next session. Respond in the language the
observation is written in. Plain text only.`, studentName, challenge)
}

func (s *ReflectionService) buildChatPrompt(studentContext, question string) string {
	contextBlock := studentContext
	if contextBlock == "" {
		contextBlock = "(no prior observations recorded for this student)"
	}
	return fmt.Sprintf(`You are assisting an instructor who records observations of students
solving spatial-reasoning exercises. Ground your answer ONLY in the recent
observations below; if they do not contain the answer, say so.

Recent observations:
%s

Instructor's question: %s

Answer concisely, in the language of the question. Plain text only.`, contextBlock, question)
}

// Offline fallbacks used when no API key is configured, so the dashboard
// stays usable without the provider.
func (s *ReflectionService) offlineReflection(studentName, challenge string) string {
	return fmt.Sprintf("Reflection (offline): %s struggled with %q. "+
		"Set GEMINI_API_KEY to generate full reflections.", studentName, challenge)
}

func (s *ReflectionService) offlineAnswer(studentContext string) string {
	if studentContext == "" {
		return "No prior observations are recorded for this student. " +
			"Set GEMINI_API_KEY to enable generated answers."
	}
	return "Generated answers are disabled (no GEMINI_API_KEY). " +
		"The student's recent observations are shown in the history panel."
}
