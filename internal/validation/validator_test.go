// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

package validation

import (
	"strings"
	"testing"
)

type pageRequest struct {
	Limit  int    `validate:"min=1,max=100"`
	Cursor string `validate:"omitempty,base64url"`
	View   string `validate:"omitempty,oneof=scraped liked highlight"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []pageRequest{
		{Limit: 1},
		{Limit: 100},
		{Limit: 20, Cursor: "eyJpZHgiOjJ9"},
		{Limit: 20, View: "liked"},
	}
	for _, req := range tests {
		if verr := ValidateStruct(&req); verr != nil {
			t.Errorf("ValidateStruct(%+v) = %v, want nil", req, verr)
		}
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       pageRequest
		wantField string
	}{
		{name: "limit too small", req: pageRequest{Limit: 0}, wantField: "Limit"},
		{name: "limit too large", req: pageRequest{Limit: 101}, wantField: "Limit"},
		{name: "bad view", req: pageRequest{Limit: 10, View: "starred"}, wantField: "View"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.req)
			if verr == nil {
				t.Fatal("ValidateStruct returned nil, want error")
			}
			if got := verr.Errors()[0].Field(); got != tt.wantField {
				t.Fatalf("failed field = %s, want %s", got, tt.wantField)
			}

			apiErr := verr.ToAPIError()
			if apiErr.Code != "VALIDATION_ERROR" {
				t.Fatalf("Code = %s, want VALIDATION_ERROR", apiErr.Code)
			}
			if apiErr.Details["field"] != tt.wantField {
				t.Fatalf("Details.field = %v, want %s", apiErr.Details["field"], tt.wantField)
			}
		})
	}
}

func TestToAPIError_MultipleFailures(t *testing.T) {
	t.Parallel()

	req := pageRequest{Limit: 0, View: "starred"}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("ValidateStruct returned nil, want two failures")
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("got %d failures, want 2", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	if !strings.Contains(apiErr.Message, "Limit") || !strings.Contains(apiErr.Message, "View") {
		t.Fatalf("combined message missing fields: %s", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Fatal("multi-failure details missing fields list")
	}
}
