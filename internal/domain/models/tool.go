package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Tool names served by the bank tool server.
const (
	ToolGetBalance       = "get_balance"
	ToolListTransactions = "list_transactions"
	ToolInitiatePayment  = "initiate_payment"
	ToolCreateContact    = "create_contact"
	ToolCreateWatchRule  = "create_watch_rule"
)

// ErrUnknownTool is the error text returned for unsupported tool names.
const ErrUnknownTool = "unknown_tool"

// ToolCall is the body of POST /tool.
type ToolCall struct {
	Name string          `json:"name" validate:"required"`
	Args json.RawMessage `json:"args,omitempty"`
}

// NewToolCall marshals args into a ToolCall.
func NewToolCall(name string, args interface{}) (ToolCall, error) {
	b, err := json.Marshal(args)
	if err != nil {
		return ToolCall{}, fmt.Errorf("marshal %s args: %w", name, err)
	}
	return ToolCall{Name: name, Args: b}, nil
}

// DecodeArgs decodes the call arguments into dst. Absent args leave dst untouched.
func (c ToolCall) DecodeArgs(dst interface{}) error {
	if len(c.Args) == 0 || string(c.Args) == "null" {
		return nil
	}
	return json.Unmarshal(c.Args, dst)
}

// ToolResponse carries either a result or an error string.
type ToolResponse struct {
	Name   string          `json:"name,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ToolError reports an error string returned by the tool server.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %s", e.Tool, e.Message)
}

// Transactions decodes the result as a transaction list.
func (r *ToolResponse) Transactions() ([]Transaction, error) {
	if r == nil {
		return nil, errors.New("nil tool response")
	}
	if r.Error != "" {
		return nil, &ToolError{Tool: r.Name, Message: r.Error}
	}
	txs, err := DecodeTransactions(r.Result)
	if err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txs, nil
}

// ListTransactionsArgs are the arguments of list_transactions.
// SubjectID is accepted as an alias of UserID.
type ListTransactionsArgs struct {
	UserID    string `json:"user_id,omitempty"`
	SubjectID string `json:"subject_id,omitempty"`
	SinceDays int    `json:"since_days,omitempty"`
}

// Subject returns the account owner, falling back to def.
func (a ListTransactionsArgs) Subject(def string) string {
	if a.UserID != "" {
		return a.UserID
	}
	if a.SubjectID != "" {
		return a.SubjectID
	}
	return def
}

// GetBalanceArgs are the arguments of get_balance.
type GetBalanceArgs struct {
	UserID string `json:"user_id,omitempty"`
}

// WatchRuleArgs are the arguments of create_watch_rule.
type WatchRuleArgs struct {
	UserID string          `json:"user_id,omitempty"`
	Rule   json.RawMessage `json:"rule,omitempty"`
}

// WatchRuleResult is the result of create_watch_rule.
type WatchRuleResult struct {
	Status string          `json:"status"`
	Rule   json.RawMessage `json:"rule"`
}

// ToolSchema describes one tool for GET /tools.
type ToolSchema struct {
	Name   string            `json:"name"`
	Schema map[string]string `json:"schema"`
}

// ToolCatalog lists every tool the server advertises.
func ToolCatalog() []ToolSchema {
	return []ToolSchema{
		{Name: ToolGetBalance, Schema: map[string]string{"user_id": "str"}},
		{Name: ToolListTransactions, Schema: map[string]string{"user_id": "str", "since_days": "int"}},
		{Name: ToolInitiatePayment, Schema: map[string]string{"from_acct": "str", "to_acct": "str", "amount": "float", "memo": "str"}},
		{Name: ToolCreateContact, Schema: map[string]string{"user_id": "str", "name": "str", "acct": "str"}},
		{Name: ToolCreateWatchRule, Schema: map[string]string{"user_id": "str", "rule": "str"}},
	}
}
