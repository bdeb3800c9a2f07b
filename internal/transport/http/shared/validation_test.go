package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Required("purpose", "set", "purpose is required")
	v.Enum("riskLevel", "extreme", []string{"low", "medium", "high"}, "riskLevel must be low, medium or high")
	v.Add("legalBasis", "legalBasis is required")

	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d: %+v", len(issues), issues)
	}
	wantFields := []string{"legalBasis", "name", "riskLevel"}
	for i, field := range wantFields {
		if issues[i].Field != field {
			t.Fatalf("issue %d: expected field %q, got %q", i, field, issues[i].Field)
		}
	}
}

func TestValidatorEnumSkipsEmptyValues(t *testing.T) {
	v := NewValidator()
	v.Enum("state", "", []string{"draft", "active"}, "state must be draft or active")
	if v.HasIssues() {
		t.Fatal("empty enum values are the Required check's job, not Enum's")
	}
}

func TestValidatorRejectWritesFieldDetails(t *testing.T) {
	v := NewValidator()
	v.Add("name", "name is required")

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected Reject to write a response")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Success {
		t.Fatal("validation failures must not report success")
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("expected code validation_error, got %q", body.Error.Code)
	}
	if len(body.Error.Details.Fields) != 1 || body.Error.Details.Fields[0].Field != "name" {
		t.Fatalf("unexpected field details: %+v", body.Error.Details.Fields)
	}
	if body.RequestID != "req-1" {
		t.Fatalf("expected request id echoed back, got %q", body.RequestID)
	}
}

func TestValidatorRejectSkipsCleanRequests(t *testing.T) {
	rec := httptest.NewRecorder()
	if NewValidator().Reject(rec, "req-1") {
		t.Fatal("a validator with no issues must not write a response")
	}
	if rec.Body.Len() != 0 {
		t.Fatal("expected no body for a clean request")
	}
}
