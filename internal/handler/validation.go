package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
)

// Required body fields per endpoint. The router rejects requests lacking
// any of them before a handler runs.
var (
	RegisterFields = []string{"username", "email", "password"}
	LoginFields    = []string{"email", "password"}
	ExpenseFields  = []string{"expense_claim_date", "expense_category", "description", "amount", "user_id"}
	BillFields     = []string{"bill_type", "bill_date", "due_date", "amount", "user_id"}
)

var errInvalidJSON = errors.New("request body must be a JSON object")

type payload map[string]json.RawMessage

func decodePayload(r *http.Request) (payload, error) {
	var p payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p == nil {
		return nil, errInvalidJSON
	}
	return p, nil
}

// text reads a string field. Numbers are accepted and kept in their literal form.
func (p payload) text(field string) (string, error) {
	raw, ok := p[field]
	if !ok || isNull(raw) {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingField, field)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("%w: %s must be text", domain.ErrMissingField, field)
}

// amount reads a JSON number or a numeric string as text for ParseAmount.
func (p payload) amount(field string) (string, error) {
	raw, ok := p[field]
	if !ok || isNull(raw) {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingField, field)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrInvalidAmount, string(raw))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// fields reads every named text field, stopping at the first error.
func (p payload) fields(names ...string) ([]string, error) {
	out := make([]string, len(names))
	for i, name := range names {
		v, err := p.text(name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
