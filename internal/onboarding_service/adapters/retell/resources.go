package retell

import (
	"context"
	"fmt"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

const (
	specialistVoice = "11labs-Chloe"
	routerVoice     = "11labs-Grace"
)

var defaultKBConfig = map[string]any{"top_k": 3, "filter_score": 0.6}

func (c *Client) CreateModel(ctx context.Context, req domain.ModelRequest) (string, error) {
	payload, err := c.renderTemplate(templateLLM, vars{
		"knowledge_base_ids": []string{req.KnowledgeBaseID},
		"general_prompt":     req.Prompt,
		"address_tool_url":   c.opts.AddressToolURL,
		"address_tool_token": c.opts.AddressToolToken,
		"transfer_number":    req.TransferNumber,
	})
	if err != nil {
		return "", err
	}
	id, err := c.create(ctx, opCreateLLM, payload, "llm_id")
	if err != nil {
		return "", fmt.Errorf("%s model: %w", req.Shift.Label(), err)
	}
	c.logger.InfoContext(ctx, "Model created", "shift", req.Shift, "llm_id", id)
	return id, nil
}

func (c *Client) CreateAgent(ctx context.Context, req domain.AgentRequest) (string, error) {
	payload, err := c.renderTemplate(templateAgent, vars{
		"response_engine": map[string]any{
			"type":    "retell-llm",
			"llm_id":  req.ModelID,
			"version": 0,
		},
		"voice_id":           specialistVoice,
		"agent_name":         fmt.Sprintf("%s (%s)", req.BusinessName, req.Shift.Label()),
		"knowledge_base_ids": []string{req.KnowledgeBaseID},
		"kb_config":          defaultKBConfig,
	})
	if err != nil {
		return "", err
	}
	id, err := c.create(ctx, opCreateAgent, payload, "agent_id")
	if err != nil {
		return "", fmt.Errorf("%s agent: %w", req.Shift.Label(), err)
	}
	c.logger.InfoContext(ctx, "Agent created", "shift", req.Shift, "agent_id", id)
	return id, nil
}

func (c *Client) CreateCallFlow(ctx context.Context, req domain.CallFlowRequest) (string, error) {
	payload, err := c.renderTemplate(templateCallFlow, vars{
		"flow_name":             req.BusinessName + " Flow",
		"global_prompt":         req.GlobalPrompt,
		"time_place":            req.TimePlace,
		"office_hours_agent_id": req.OfficeHoursAgentID,
		"after_hours_agent_id":  req.AfterHoursAgentID,
	})
	if err != nil {
		return "", err
	}
	id, err := c.create(ctx, opCreateFlow, payload, "conversation_flow_id")
	if err != nil {
		return "", err
	}
	c.logger.InfoContext(ctx, "Conversation flow created", "conversation_flow_id", id)
	return id, nil
}

// CreateRouterAgent creates the agent that answers the phone and runs the call flow.
func (c *Client) CreateRouterAgent(ctx context.Context, req domain.RouterAgentRequest) (string, error) {
	payload, err := c.renderTemplate(templateAgent, vars{
		"response_engine": map[string]any{
			"type":                 "conversation-flow",
			"conversation_flow_id": req.CallFlowID,
			"version":              0,
		},
		"voice_id":           routerVoice,
		"agent_name":         req.BusinessName + " (Main Router)",
		"knowledge_base_ids": nil,
		"kb_config":          nil,
	})
	if err != nil {
		return "", err
	}
	id, err := c.create(ctx, opCreateAgent, payload, "agent_id")
	if err != nil {
		return "", err
	}
	c.logger.InfoContext(ctx, "Router agent created", "agent_id", id)
	return id, nil
}
