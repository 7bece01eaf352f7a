package models

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// UpdateRuleRequest запрос на замену правила
type UpdateRuleRequest struct {
	RuleType      string          `json:"ruleType"`
	RuleKey       string          `json:"ruleKey"`
	Value         json.RawMessage `json:"value"`
	EffectiveFrom *string         `json:"effectiveFrom,omitempty"` // "YYYY-MM-DD", по умолчанию сегодня
}

// RuleResponse правило в административном ответе
type RuleResponse struct {
	ID             int64           `json:"id"`
	RuleType       string          `json:"ruleType"`
	RuleKey        string          `json:"ruleKey"`
	Value          json.RawMessage `json:"value"`
	EffectiveFrom  string          `json:"effectiveFrom"`
	EffectiveUntil *string         `json:"effectiveUntil,omitempty"`
	Active         bool            `json:"active"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

// RuleListResponse список правил
type RuleListResponse struct {
	Rules []*RuleResponse `json:"rules"`
}

// FromDomainRule конвертирует доменное правило в ответ
func FromDomainRule(rule *domain.BusinessRule) *RuleResponse {
	resp := &RuleResponse{
		ID:            rule.ID,
		RuleType:      string(rule.RuleType),
		RuleKey:       rule.RuleKey,
		Value:         rule.Value,
		EffectiveFrom: rule.EffectiveFrom.Format(domain.DateFormat),
		Active:        rule.Active,
		CreatedAt:     rule.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     rule.UpdatedAt.Format(time.RFC3339),
	}
	if rule.EffectiveUntil != nil {
		until := rule.EffectiveUntil.Format(domain.DateFormat)
		resp.EffectiveUntil = &until
	}
	return resp
}

// FromDomainRuleList конвертирует список доменных правил в ответ
func FromDomainRuleList(rules []*domain.BusinessRule) *RuleListResponse {
	result := make([]*RuleResponse, 0, len(rules))
	for _, rule := range rules {
		result = append(result, FromDomainRule(rule))
	}
	return &RuleListResponse{Rules: result}
}
