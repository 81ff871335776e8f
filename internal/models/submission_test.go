package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Submission
	}{
		{
			name: "strings",
			body: `{"name":"Jane","email":"jane@example.com","phone":"0412 345 678","suburb":"Ryde","service":"gas","message":"Hi\nthere"}`,
			want: Submission{Name: "Jane", Email: "jane@example.com", Phone: "0412 345 678", Suburb: "Ryde", Service: "gas", Message: "Hi\nthere"},
		},
		{
			name: "numeric phone",
			body: `{"name":"Jane","email":"jane@example.com","phone":412345678}`,
			want: Submission{Name: "Jane", Email: "jane@example.com", Phone: "412345678"},
		},
		{
			name: "falsy values are empty",
			body: `{"name":null,"email":false,"phone":0,"message":""}`,
			want: Submission{},
		},
		{
			name: "true and composite values",
			body: `{"name":true,"email":"jane@example.com","phone":[1, 2],"message":{"a": 1}}`,
			want: Submission{Name: "true", Email: "jane@example.com", Phone: "[1,2]", Message: `{"a":1}`},
		},
		{
			name: "unknown fields ignored",
			body: `{"name":"Jane","captcha":"x"}`,
			want: Submission{Name: "Jane"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Submission
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmission_UnmarshalJSON_NotObject(t *testing.T) {
	var got Submission
	assert.Error(t, json.Unmarshal([]byte(`["Jane"]`), &got))
	assert.Error(t, json.Unmarshal([]byte(`{"name":`), &got))
}

func TestSubmission_MarshalOmitsEmptyOptional(t *testing.T) {
	raw, err := json.Marshal(Submission{Name: "Jane", Email: "jane@example.com", Phone: "0412345678"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Jane","email":"jane@example.com","phone":"0412345678"}`, string(raw))
}
