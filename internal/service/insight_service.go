package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/util"
	"github.com/rs/zerolog/log"
)

// Generator produces text from a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const insightPrompt = `You are a financial analyst providing a summary of a user's recent financial movements as prose.

Your final output must be a text-based financial summary. Do not provide any code in your response.

Analyze the following financial data for the last three months. The data is a list of objects, each one a financial movement with its date, value, currency, payment method, category and stakeholder. Some movements also have an "activity_log" with notes providing additional context.

Instructions:
1. Provide a general overview of the user's financial activity for the last three months, incorporating details from the activity logs where relevant.
2. Calculate and summarize the total income (positive values) and total expenses (negative values) for each unique category and stakeholder.
3. The final output should be a clear, concise and easy-to-read summary formatted as bullet points or a numbered list.

Financial data:
%s
`

// insightMovement is one movement as it appears in the prompt
type insightMovement struct {
	Date          string      `json:"date"`
	Value         json.Number `json:"value"`
	Currency      string      `json:"currency"`
	PaymentMethod string      `json:"payment_method"`
	Category      string      `json:"category"`
	Stakeholder   string      `json:"stakeholder"`
	ActivityLog   *string     `json:"activity_log"`
}

// InsightService summarizes recent movements with a text generator
type InsightService struct {
	movementRepo domain.MovementRepository
	generator    Generator
	now          func() time.Time
}

// NewInsightService creates a new InsightService. generator may be nil.
func NewInsightService(movementRepo domain.MovementRepository, generator Generator) *InsightService {
	return &InsightService{
		movementRepo: movementRepo,
		generator:    generator,
		now:          time.Now,
	}
}

// IsEnabled reports whether a generator is configured
func (s *InsightService) IsEnabled() bool {
	return s != nil && s.generator != nil
}

// GenerateInsights summarizes the user's movements of the last 90 days
func (s *InsightService) GenerateInsights(ctx context.Context, userID int32) (string, error) {
	if !s.IsEnabled() {
		return "", domain.ErrInsightsNotConfigured
	}

	since := util.DaysBefore(s.now(), domain.RecentWindowDays)
	movements, err := s.movementRepo.ListDetailed(ctx, userID, since)
	if err != nil {
		return "", err
	}
	if len(movements) == 0 {
		return "", domain.ErrNoRecentMovements
	}

	prompt, err := buildInsightPrompt(movements)
	if err != nil {
		return "", err
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate insights: %w", err)
	}

	log.Info().Int32("user_id", userID).Int("movements", len(movements)).Msg("Insights generated")
	return text, nil
}

func buildInsightPrompt(movements []*domain.MovementDetail) (string, error) {
	rows := make([]insightMovement, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, insightMovement{
			Date:          util.FormatDate(m.MovementDate),
			Value:         json.Number(m.Value.StringFixed(2)),
			Currency:      string(m.Currency),
			PaymentMethod: string(m.PaymentMethod),
			Category:      string(m.CategoryType),
			Stakeholder:   m.Counterparty,
			ActivityLog:   m.ActivityLog,
		})
	}

	data, err := json.MarshalIndent(rows, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode movements: %w", err)
	}
	return fmt.Sprintf(insightPrompt, data), nil
}
