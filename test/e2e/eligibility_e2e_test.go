// test/e2e/eligibility_e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eligibility-engine/internal/common/logger"
	"eligibility-engine/internal/eligibility"
	"eligibility-engine/internal/genai"
	"eligibility-engine/internal/policy"
	"eligibility-engine/internal/server"
	"eligibility-engine/internal/session"
)

// fakeModel answers generation requests by inspecting the prompt, so the
// whole review flow runs against a real genai.Client over HTTP.
func fakeModel(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []genai.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt := req.Messages[len(req.Messages)-1].Content

		var text string
		switch {
		case strings.Contains(prompt, "Extract every eligibility condition"):
			text = "```json\n" + `{
				"conditions": [
					{"name": "Under 39", "description": "Founder must be 39 or younger", "type": "Age", "value": "39"},
					{"name": "Registered business", "description": "Business must be registered", "type": "business_status"}
				],
				"extra_requirements": null
			}` + "\n```"
		case strings.Contains(prompt, "judging whether an applicant satisfies"):
			if strings.Contains(prompt, "I am 30") || strings.Contains(prompt, "registered last year") {
				text = `{"status": "PASS", "reason": "the answer satisfies the condition"}`
			} else {
				text = `{"status": "UNKNOWN", "reason": "not enough information"}`
			}
		default:
			text = "Could you tell me more about that?"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": text})
	}))
}

type staticPolicies struct {
	policy *policy.Policy
}

func (s *staticPolicies) GetPolicy(ctx context.Context, id int64) (*policy.Policy, error) {
	if id != s.policy.ID {
		return nil, policy.ErrNotFound
	}
	return s.policy, nil
}

func (s *staticPolicies) RecordSession(ctx context.Context, sessionID string, policyID int64) error {
	return nil
}

func (s *staticPolicies) SaveResult(ctx context.Context, st *eligibility.State) error {
	return nil
}

func (s *staticPolicies) Lookup(ctx context.Context, policyID int64) (*eligibility.PolicyInfo, error) {
	if policyID != s.policy.ID {
		return nil, nil
	}
	return &eligibility.PolicyInfo{
		ID:            s.policy.ID,
		ProgramName:   s.policy.ProgramName,
		ContactAgency: s.policy.ContactAgency,
		ContactNumber: s.policy.ContactNumber,
	}, nil
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func TestEligibilityReviewEndToEnd(t *testing.T) {
	model := fakeModel(t)
	defer model.Close()

	log := logger.NewTestLogger(t)

	genClient := genai.NewClient(&genai.Config{
		BaseURL:    model.URL,
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		MaxTokens:  1500,
	}, log)

	policies := &staticPolicies{policy: &policy.Policy{
		ID:            7,
		ProgramName:   "Youth Startup Fund",
		ApplyTarget:   "Founders aged 39 or younger with a registered business.",
		ContactAgency: "Small Business Agency",
		ContactNumber: "1357",
	}}

	engine := eligibility.NewEngine(&eligibility.Config{
		QuestionTemperature: 0.3,
	}, genClient, policies, log)

	srv := server.New(engine, session.NewMemoryStore(), policies, log)
	api := httptest.NewServer(srv.Router())
	defer api.Close()

	// Start the review.
	resp := postJSON(t, api.URL+"/eligibility/start", server.StartRequest{PolicyID: 7})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var start server.StartResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&start))
	resp.Body.Close()

	assert.NotEmpty(t, start.SessionID)
	assert.NotEmpty(t, start.Question)
	assert.Equal(t, 2, start.Progress.Total)

	// First answer settles the age condition.
	resp = postJSON(t, api.URL+"/eligibility/answer", server.AnswerRequest{
		SessionID: start.SessionID,
		Answer:    "I am 30 years old",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first server.AnswerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	resp.Body.Close()

	assert.False(t, first.Completed)
	require.NotNil(t, first.Question)

	// Result is refused until the review completes.
	refused, err := http.Get(api.URL + "/eligibility/result/" + start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, refused.StatusCode)
	refused.Body.Close()

	// Second answer settles the registration condition.
	resp = postJSON(t, api.URL+"/eligibility/answer", server.AnswerRequest{
		SessionID: start.SessionID,
		Answer:    "Yes, it was registered last year",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second server.AnswerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	resp.Body.Close()

	assert.True(t, second.Completed)
	assert.Nil(t, second.Question)

	// Final verdict.
	resp, err = http.Get(api.URL + "/eligibility/result/" + start.SessionID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result server.ResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()

	assert.Equal(t, "ELIGIBLE", result.Result)
	require.Len(t, result.Details, 2)
	for _, d := range result.Details {
		assert.Equal(t, "PASS", d.Status)
	}

	// Checklist projection matches the settled conditions.
	resp, err = http.Get(api.URL + "/eligibility/checklist/" + start.SessionID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var checklist server.ChecklistResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&checklist))
	resp.Body.Close()

	require.Len(t, checklist.Items, 2)
	assert.Equal(t, "Under 39", checklist.Items[0].Label)

	// Cleanup.
	req, err := http.NewRequest(http.MethodDelete, api.URL+"/eligibility/session/"+start.SessionID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(api.URL + "/eligibility/result/" + start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUnhelpfulAnswerLeadsToUndeterminedVerdict(t *testing.T) {
	model := fakeModel(t)
	defer model.Close()

	log := logger.NewTestLogger(t)
	genClient := genai.NewClient(&genai.Config{
		BaseURL:    model.URL,
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		MaxTokens:  1500,
	}, log)

	policies := &staticPolicies{policy: &policy.Policy{
		ID:            7,
		ProgramName:   "Youth Startup Fund",
		ApplyTarget:   "Founders aged 39 or younger with a registered business.",
		ContactAgency: "Small Business Agency",
		ContactNumber: "1357",
	}}

	engine := eligibility.NewEngine(&eligibility.Config{}, genClient, policies, log)
	srv := server.New(engine, session.NewMemoryStore(), policies, log)
	api := httptest.NewServer(srv.Router())
	defer api.Close()

	resp := postJSON(t, api.URL+"/eligibility/start", server.StartRequest{PolicyID: 7})
	var start server.StartResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&start))
	resp.Body.Close()

	// Neither answer carries usable facts.
	for i := 0; i < 2; i++ {
		resp = postJSON(t, api.URL+"/eligibility/answer", server.AnswerRequest{
			SessionID: start.SessionID,
			Answer:    "I would rather not say",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(api.URL + "/eligibility/result/" + start.SessionID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result server.ResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()

	assert.Equal(t, "CANNOT_DETERMINE", result.Result)
	assert.Contains(t, result.Reason, "contact: Small Business Agency 1357")
}
