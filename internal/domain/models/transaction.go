package models

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Transaction is one bank ledger entry as returned by the tool server.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

// UnmarshalJSON decodes leniently. A missing, null or non-numeric amount
// becomes zero, while a quoted number such as "12.5" is accepted as 12.5.
// A non-string id, date or description keeps its raw text.
func (t *Transaction) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          json.RawMessage `json:"id"`
		Amount      json.RawMessage `json:"amount"`
		Date        json.RawMessage `json:"date"`
		Description json.RawMessage `json:"description"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	t.ID = rawText(raw.ID)
	t.Amount = parseAmount(raw.Amount)
	t.Date = rawText(raw.Date)
	t.Description = rawText(raw.Description)
	return nil
}

// AbsAmount returns |amount| as float64.
func (t Transaction) AbsAmount() float64 {
	return t.Amount.Abs().InexactFloat64()
}

func parseAmount(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}
	s := string(raw)
	if raw[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return decimal.Zero
		}
		s = unq
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// DecodeTransactions decodes a JSON array, skipping elements that are not objects.
func DecodeTransactions(raw json.RawMessage) ([]Transaction, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	out := make([]Transaction, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			continue
		}
		var t Transaction
		if err := json.Unmarshal(item, &t); err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
