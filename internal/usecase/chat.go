package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"BankBrain/internal/domain/models"
	drepo "BankBrain/internal/domain/repository"
	"BankBrain/internal/services/llm"
	xlogger "BankBrain/pkg/logger"
)

// ChatService answers support questions with the user's recent transactions
// as model context.
type ChatService struct {
	tools     drepo.ToolClient
	gen       drepo.Generator
	metrics   drepo.Metrics
	logger    *xlogger.Logger
	sinceDays int
}

func NewChatService(tools drepo.ToolClient, gen drepo.Generator, metrics drepo.Metrics, logger *xlogger.Logger, sinceDays int) *ChatService {
	if sinceDays <= 0 {
		sinceDays = 30
	}
	return &ChatService{tools: tools, gen: gen, metrics: metrics, logger: logger, sinceDays: sinceDays}
}

// Reply runs one chat turn. A tool server failure becomes an error marker in
// the context instead of failing the turn.
func (s *ChatService) Reply(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	txCtx, err := s.tools.ListTransactions(ctx, req.UserID, s.sinceDays)
	if err != nil {
		s.logger.Warn("transactions unavailable for chat",
			xlogger.String("user_id", req.UserID),
			xlogger.Error(err),
		)
		txCtx = &models.ToolResponse{Error: err.Error()}
	}

	reply := llm.Complete(ctx, s.gen, ChatPrompt(s.sinceDays, txCtx, req.Message))
	return models.ChatResponse{Reply: reply, Context: txCtx}
}

// ChatPrompt frames the user's question for the banking copilot.
func ChatPrompt(sinceDays int, txCtx *models.ToolResponse, question string) string {
	ctxJSON, err := json.Marshal(txCtx)
	if err != nil {
		ctxJSON = []byte(`{}`)
	}
	return fmt.Sprintf("You are a banking copilot. Given the last %d days transactions: %s.\n"+
		"Answer the user question: %s\n"+
		"If user requests an action, ALWAYS ask for explicit confirmation and do NOT execute without consent.",
		sinceDays, ctxJSON, question)
}

// Notify accepts a relayed notification. The payload is opaque here too;
// it is only logged.
func (s *ChatService) Notify(_ context.Context, payload json.RawMessage) models.Ack {
	s.metrics.RecordInboundNotification()

	var p models.NotificationPayload
	if err := json.Unmarshal(payload, &p); err == nil && p.UserID != "" {
		s.logger.Info("A2A notify received",
			xlogger.String("user_id", p.UserID),
			xlogger.String("text", p.Text),
		)
	} else {
		s.logger.Info("A2A notify received", xlogger.String("payload", string(payload)))
	}
	return models.Ack{OK: true}
}
