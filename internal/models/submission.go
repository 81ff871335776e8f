// Package models содержит доменные модели приложения.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Submission описывает одну заявку с контактной формы. Нигде не сохраняется.
type Submission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email_shape"`
	Phone   string `json:"phone" validate:"required"`
	Suburb  string `json:"suburb,omitempty"`
	Service string `json:"service,omitempty"`
	Message string `json:"message,omitempty"`
}

// UnmarshalJSON принимает поля любого JSON-типа, как их принимает форма:
// число или true превращаются в строку, null, false, 0 и "" считаются пустыми.
func (s *Submission) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    json.RawMessage `json:"name"`
		Email   json.RawMessage `json:"email"`
		Phone   json.RawMessage `json:"phone"`
		Suburb  json.RawMessage `json:"suburb"`
		Service json.RawMessage `json:"service"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Submission{
		Name:    fieldValue(raw.Name),
		Email:   fieldValue(raw.Email),
		Phone:   fieldValue(raw.Phone),
		Suburb:  fieldValue(raw.Suburb),
		Service: fieldValue(raw.Service),
		Message: fieldValue(raw.Message),
	}
	return nil
}

func fieldValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return ""
		}
		return v
	case 'n', 'f':
		return ""
	case 't':
		return "true"
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return ""
		}
		return buf.String()
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || f == 0 {
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
