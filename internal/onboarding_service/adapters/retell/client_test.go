package retell

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewClient(Options{
		BaseURL:          server.URL,
		APIToken:         "key_test",
		OrgID:            "org_1",
		AddressToolURL:   "https://tools.example/validate-address",
		AddressToolToken: "tool_secret",
	}, logger, server.Client())
	require.NoError(t, err)
	return c
}

func decodeJSONBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_CreateKnowledgeBase(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer key_test", r.Header.Get("Authorization"))
		assert.Equal(t, "org_1", r.Header.Get("orgid"))

		switch r.URL.Path {
		case "/list-sitemap":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body := decodeJSONBody(t, r)
			assert.Equal(t, "https://acme.example", body["website_url"])
			writeJSON(w, http.StatusOK, map[string]any{"urls": []string{"https://acme.example/", "https://acme.example/about"}})
		case "/create-knowledge-base":
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "Acme Fire & Safety", r.PostForm.Get("knowledge_base_name"))
			assert.Equal(t, `["https://acme.example/","https://acme.example/about"]`, r.PostForm.Get("knowledge_base_urls"))
			assert.Equal(t, "[]", r.PostForm.Get("knowledge_base_texts"))
			assert.Equal(t, "false", r.PostForm.Get("enable_auto_refresh"))
			assert.Equal(t, "[]", r.PostForm.Get("auto_crawling_paths"))
			writeJSON(w, http.StatusCreated, map[string]any{"knowledge_base_id": "kb_1"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	id, err := c.CreateKnowledgeBase(context.Background(), "Acme Fire & Safety", "https://acme.example")
	require.NoError(t, err)
	assert.Equal(t, "kb_1", id)
}

func TestClient_ListSitemap_BareList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []string{"https://acme.example/"})
	})

	urls, err := c.ListSitemap(context.Background(), "https://acme.example")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://acme.example/"}, urls)
}

func TestClient_CreateKnowledgeBase_EmptySitemap(t *testing.T) {
	var kbCalls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/create-knowledge-base" {
			kbCalls.Add(1)
		}
		writeJSON(w, http.StatusOK, map[string]any{"urls": []string{}})
	})

	_, err := c.CreateKnowledgeBase(context.Background(), "Acme", "https://acme.example")
	assert.ErrorIs(t, err, domain.ErrEmptySitemap)
	assert.Zero(t, kbCalls.Load())
}

func TestKnowledgeBaseName(t *testing.T) {
	assert.Equal(t, "Acme", KnowledgeBaseName("Acme"))

	long := strings.Repeat("a", 60)
	got := KnowledgeBaseName(long)
	assert.Len(t, got, 50)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("a", 47), strings.TrimSuffix(got, "..."))
}

func TestClient_RemoteErrorCarriesStatusAndBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"voice not found"}`))
	})

	_, err := c.CreateAgent(context.Background(), domain.AgentRequest{Shift: domain.ShiftOfficeHours, BusinessName: "Acme", ModelID: "llm_1", KnowledgeBaseID: "kb_1"})
	require.Error(t, err)

	var remote *domain.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusUnprocessableEntity, remote.StatusCode)
	assert.Equal(t, "create-agent", remote.Operation)
	assert.Contains(t, remote.Body, "voice not found")
	assert.Contains(t, err.Error(), "Office Hours agent")
}

func TestClient_MissingIdentifier(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	_, err := c.CreateCallFlow(context.Background(), domain.CallFlowRequest{BusinessName: "Acme", TimePlace: "Chicago"})
	assert.ErrorIs(t, err, domain.ErrMissingIdentifier)
}

func TestClient_CreateModel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-retell-llm", r.URL.Path)
		body := decodeJSONBody(t, r)

		assert.Equal(t, "gpt-4.1", body["model"])
		assert.Equal(t, []any{"kb_1"}, body["knowledge_base_ids"])
		assert.Equal(t, "You are Clara.", body["general_prompt"])

		tools := body["general_tools"].([]any)
		require.Len(t, tools, 4)
		address := tools[0].(map[string]any)
		assert.Equal(t, "validate_address", address["name"])
		assert.Equal(t, "https://tools.example/validate-address", address["url"])
		assert.Equal(t, "Bearer tool_secret", address["headers"].(map[string]any)["Authorization"])
		transfer := tools[3].(map[string]any)
		assert.Equal(t, "+12135550100", transfer["transfer_destination"].(map[string]any)["number"])

		writeJSON(w, http.StatusCreated, map[string]any{"llm_id": "llm_oh"})
	})

	id, err := c.CreateModel(context.Background(), domain.ModelRequest{
		Shift:           domain.ShiftOfficeHours,
		BusinessName:    "Acme",
		Prompt:          "You are Clara.",
		KnowledgeBaseID: "kb_1",
		TransferNumber:  "+12135550100",
	})
	require.NoError(t, err)
	assert.Equal(t, "llm_oh", id)
}

func TestClient_CreateAgent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeJSONBody(t, r)
		engine := body["response_engine"].(map[string]any)
		assert.Equal(t, "retell-llm", engine["type"])
		assert.Equal(t, "llm_ah", engine["llm_id"])
		assert.EqualValues(t, 0, engine["version"])
		assert.Equal(t, "Acme (After Hours)", body["agent_name"])
		assert.Equal(t, "11labs-Chloe", body["voice_id"])
		assert.Equal(t, []any{"kb_1"}, body["knowledge_base_ids"])
		assert.NotNil(t, body["kb_config"])
		writeJSON(w, http.StatusOK, map[string]any{"agent_id": "agent_ah"})
	})

	id, err := c.CreateAgent(context.Background(), domain.AgentRequest{Shift: domain.ShiftAfterHours, BusinessName: "Acme", ModelID: "llm_ah", KnowledgeBaseID: "kb_1"})
	require.NoError(t, err)
	assert.Equal(t, "agent_ah", id)
}

func TestClient_CreateRouterAgent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeJSONBody(t, r)
		engine := body["response_engine"].(map[string]any)
		assert.Equal(t, "conversation-flow", engine["type"])
		assert.Equal(t, "flow_1", engine["conversation_flow_id"])
		assert.Equal(t, "Acme (Main Router)", body["agent_name"])
		assert.Equal(t, "11labs-Grace", body["voice_id"])
		assert.NotContains(t, body, "knowledge_base_ids")
		assert.NotContains(t, body, "kb_config")
		writeJSON(w, http.StatusCreated, map[string]any{"agent_id": "agent_mr"})
	})

	id, err := c.CreateRouterAgent(context.Background(), domain.RouterAgentRequest{BusinessName: "Acme", CallFlowID: "flow_1"})
	require.NoError(t, err)
	assert.Equal(t, "agent_mr", id)
}

func TestClient_CreateCallFlow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-conversation-flow", r.URL.Path)
		body := decodeJSONBody(t, r)
		assert.Equal(t, "Acme Flow", body["conversation_flow_name"])
		assert.Equal(t, "global", body["global_prompt"])

		nodes := body["nodes"].([]any)
		require.Len(t, nodes, 3)
		branch := nodes[0].(map[string]any)
		edge := branch["edges"].([]any)[0].(map[string]any)
		cond := edge["transition_condition"].(map[string]any)
		assert.Equal(t, "If {{current_time_America/Chicago}} is within office hours", cond["prompt"])
		assert.Equal(t, "agent_oh", nodes[1].(map[string]any)["agent_id"])
		assert.Equal(t, "agent_ah", nodes[2].(map[string]any)["agent_id"])

		writeJSON(w, http.StatusCreated, map[string]any{"conversation_flow_id": "flow_1"})
	})

	id, err := c.CreateCallFlow(context.Background(), domain.CallFlowRequest{
		BusinessName:       "Acme",
		TimePlace:          "Chicago",
		GlobalPrompt:       "global",
		OfficeHoursAgentID: "agent_oh",
		AfterHoursAgentID:  "agent_ah",
	})
	require.NoError(t, err)
	assert.Equal(t, "flow_1", id)
}

func TestClient_PurchaseNumber(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-phone-number", r.URL.Path)
		body := decodeJSONBody(t, r)
		assert.Equal(t, "Acme Number", body["nickname"])
		assert.EqualValues(t, 213, body["area_code"])
		assert.Equal(t, "US", body["country_code"])
		assert.Equal(t, "twilio", body["number_provider"])
		assert.Equal(t, []any{"US", "CA"}, body["inbound_allowed_countries"])
		assert.Equal(t, "agent_mr", body["inbound_agent_id"])
		assert.EqualValues(t, 0, body["inbound_agent_version"])
		writeJSON(w, http.StatusCreated, map[string]any{"phone_number": "+12135550199"})
	})

	got, err := c.PurchaseNumber(context.Background(), domain.NumberRequest{BusinessName: "Acme", AreaCode: "213", InboundAgentID: "agent_mr"})
	require.NoError(t, err)
	assert.Equal(t, "+12135550199", got.PhoneNumber)
	assert.Equal(t, "+12135550199", got.PhoneNumberID)
}

func TestClient_PurchaseNumber_InvalidAreaCode(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := c.PurchaseNumber(context.Background(), domain.NumberRequest{AreaCode: "21a"})
	assert.ErrorIs(t, err, domain.ErrInvalidAreaCode)
	assert.Zero(t, calls.Load())
}
