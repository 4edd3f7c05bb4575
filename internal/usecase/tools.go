package usecase

import (
	"context"
	"encoding/json"
	"time"

	"BankBrain/internal/domain/models"
	drepo "BankBrain/internal/domain/repository"
	xlogger "BankBrain/pkg/logger"
)

const (
	defaultToolUser      = "user1"
	defaultToolSinceDays = 30
)

// ToolDispatcher executes tool calls against the bank API.
type ToolDispatcher struct {
	bank    drepo.BankAPI
	metrics drepo.Metrics
	logger  *xlogger.Logger
}

func NewToolDispatcher(bank drepo.BankAPI, metrics drepo.Metrics, logger *xlogger.Logger) *ToolDispatcher {
	return &ToolDispatcher{bank: bank, metrics: metrics, logger: logger}
}

// Catalog lists the advertised tools.
func (d *ToolDispatcher) Catalog() []models.ToolSchema {
	return models.ToolCatalog()
}

// Dispatch runs call. Failures are reported inside the response.
func (d *ToolDispatcher) Dispatch(ctx context.Context, call models.ToolCall) models.ToolResponse {
	start := time.Now()
	resp := d.dispatch(ctx, call)
	d.metrics.RecordLatency("tool_"+call.Name, time.Since(start).Seconds())

	result := "ok"
	if resp.Error != "" {
		result = "error"
		d.logger.Warn("tool call failed",
			xlogger.String("tool", call.Name),
			xlogger.String("error", resp.Error),
		)
	}
	if resp.Error == models.ErrUnknownTool {
		d.metrics.RecordToolCall("unknown", result)
	} else {
		d.metrics.RecordToolCall(call.Name, result)
	}
	return resp
}

func (d *ToolDispatcher) dispatch(ctx context.Context, call models.ToolCall) models.ToolResponse {
	resp := models.ToolResponse{Name: call.Name}

	switch call.Name {
	case models.ToolListTransactions:
		var args models.ListTransactionsArgs
		if err := call.DecodeArgs(&args); err != nil {
			resp.Error = "invalid args: " + err.Error()
			return resp
		}
		since := args.SinceDays
		if since <= 0 {
			since = defaultToolSinceDays
		}
		raw, err := d.bank.Transactions(ctx, args.Subject(defaultToolUser), since)
		return withResult(resp, raw, err)

	case models.ToolGetBalance:
		var args models.GetBalanceArgs
		if err := call.DecodeArgs(&args); err != nil {
			resp.Error = "invalid args: " + err.Error()
			return resp
		}
		user := args.UserID
		if user == "" {
			user = defaultToolUser
		}
		raw, err := d.bank.Balance(ctx, user)
		return withResult(resp, raw, err)

	case models.ToolCreateWatchRule:
		var args models.WatchRuleArgs
		if err := call.DecodeArgs(&args); err != nil {
			resp.Error = "invalid args: " + err.Error()
			return resp
		}
		rule := args.Rule
		if len(rule) == 0 {
			rule = json.RawMessage("null")
		}
		raw, err := json.Marshal(models.WatchRuleResult{Status: "ok", Rule: rule})
		return withResult(resp, raw, err)

	default:
		resp.Error = models.ErrUnknownTool
		return resp
	}
}

func withResult(resp models.ToolResponse, raw json.RawMessage, err error) models.ToolResponse {
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Result = raw
	return resp
}
