// internal/eligibility/schema.go
package eligibility

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ==========================
// Payload Schemas
// ==========================

// conditionEntrySchema accepts any keyed record. Extraction entries vary in
// which fields the model fills, so only the record shape is enforced here;
// field coercion happens in decodeCondition.
const conditionEntrySchema = `{
	"type": "object"
}`

// judgmentSchema leaves the status value open on purpose. Off-enum
// statuses are coerced to UNKNOWN downstream so the model's reason text
// survives.
const judgmentSchema = `{
	"type": "object",
	"properties": {
		"status": {
			"type": "string"
		},
		"reason": {
			"type": "string"
		}
	},
	"required": ["status"]
}`

var (
	conditionEntryLoader = gojsonschema.NewStringLoader(conditionEntrySchema)
	judgmentLoader       = gojsonschema.NewStringLoader(judgmentSchema)
)

func validateConditionEntry(entry interface{}) error {
	return validateAgainst(conditionEntryLoader, entry)
}

func validateJudgment(payload interface{}) error {
	return validateAgainst(judgmentLoader, payload)
}

func validateAgainst(schema gojsonschema.JSONLoader, doc interface{}) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("invalid payload: %s", errs[0].String())
		}
		return fmt.Errorf("invalid payload")
	}
	return nil
}
