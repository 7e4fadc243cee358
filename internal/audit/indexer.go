// internal/audit/indexer.go
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "eligibility-engine/internal/common/errors"
	"eligibility-engine/internal/common/logger"
	"eligibility-engine/internal/eligibility"
)

// VerdictDocument is the audit record written for each completed review.
type VerdictDocument struct {
	SessionID  string                  `json:"session_id"`
	PolicyID   int64                   `json:"policy_id"`
	Result     string                  `json:"result"`
	Reason     string                  `json:"reason"`
	Conditions []eligibility.Condition `json:"conditions"`
	ExtraReqs  string                  `json:"extra_requirements,omitempty"`
	RecordedAt string                  `json:"recorded_at"`
}

// Indexer writes completed verdicts to Elasticsearch for audit queries.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{
		client: client,
		index:  index,
		logger: log.With(map[string]interface{}{
			"component": "audit",
		}),
	}
}

// IndexVerdict records the final state of a review. The session id doubles
// as the document id so re-running the result step overwrites instead of
// duplicating.
func (i *Indexer) IndexVerdict(ctx context.Context, st *eligibility.State) error {
	doc := VerdictDocument{
		SessionID:  st.SessionID,
		PolicyID:   st.PolicyID,
		Result:     string(st.FinalResult),
		Reason:     st.Reason,
		Conditions: st.Conditions,
		ExtraReqs:  st.ExtraRequirements,
		RecordedAt: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal verdict document: %w", err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithContext(ctx),
		i.client.Index.WithDocumentID(st.SessionID),
	)
	if err != nil {
		return apperrors.NewAuditIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewAuditIndexFailedError(fmt.Errorf("index verdict: %s", res.Status()))
	}

	i.logger.Info("verdict indexed", map[string]interface{}{
		"session_id": st.SessionID,
		"index":      i.index,
	})
	return nil
}
