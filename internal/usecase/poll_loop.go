package usecase

import (
	"context"
	"fmt"
	"time"

	"BankBrain/internal/domain/models"
	drepo "BankBrain/internal/domain/repository"
	"BankBrain/internal/services/anomaly"
	"BankBrain/internal/services/llm"
	xlogger "BankBrain/pkg/logger"
)

// PollConfig fixes what the risk monitor watches and how often.
type PollConfig struct {
	SubjectID string
	SinceDays int
	Interval  time.Duration
}

// CycleReport summarises one poll cycle.
type CycleReport struct {
	Amounts    []float64
	Suspicious []float64
	Rationale  string
	Notified   bool
}

// RiskMonitor polls the tool server, scores amounts and notifies support
// about outliers.
type RiskMonitor struct {
	cfg      PollConfig
	tools    drepo.ToolClient
	gen      drepo.Generator
	notifier drepo.Notifier
	alerts   drepo.AlertPublisher
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	now      func() time.Time
}

// RiskMonitorOption configures RiskMonitor.
type RiskMonitorOption func(*RiskMonitor)

// WithAlertPublisher also publishes every anomalous cycle to p.
func WithAlertPublisher(p drepo.AlertPublisher) RiskMonitorOption {
	return func(m *RiskMonitor) {
		m.alerts = p
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) RiskMonitorOption {
	return func(m *RiskMonitor) {
		m.now = now
	}
}

func NewRiskMonitor(
	cfg PollConfig,
	tools drepo.ToolClient,
	gen drepo.Generator,
	notifier drepo.Notifier,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	opts ...RiskMonitorOption,
) *RiskMonitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.SinceDays <= 0 {
		cfg.SinceDays = 1
	}
	m := &RiskMonitor{
		cfg:      cfg,
		tools:    tools,
		gen:      gen,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes a cycle immediately and then once per interval until ctx is
// cancelled. Cycle failures are logged and never stop the loop.
func (m *RiskMonitor) Run(ctx context.Context) error {
	m.logger.Info("risk monitor started",
		xlogger.String("subject", m.cfg.SubjectID),
		xlogger.Duration("interval_ms", m.cfg.Interval),
		xlogger.Int("since_days", m.cfg.SinceDays),
	)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		m.runOnce(ctx)

		select {
		case <-ctx.Done():
			m.logger.Info("risk monitor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (m *RiskMonitor) runOnce(ctx context.Context) {
	start := time.Now()
	report, err := m.RunCycle(ctx)
	m.metrics.RecordLatency("poll_cycle", time.Since(start).Seconds())

	switch {
	case err != nil:
		m.metrics.RecordPollCycle("error")
		m.logger.Error("poll error", xlogger.Error(err))
	case len(report.Suspicious) > 0:
		m.metrics.RecordPollCycle("anomalous")
	default:
		m.metrics.RecordPollCycle("quiet")
		m.logger.Debug("poll cycle quiet", xlogger.Int("amounts", len(report.Amounts)))
	}
}

// RunCycle performs one fetch, score and notify pass.
func (m *RiskMonitor) RunCycle(ctx context.Context) (*CycleReport, error) {
	resp, err := m.tools.ListTransactions(ctx, m.cfg.SubjectID, m.cfg.SinceDays)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	txs, err := resp.Transactions()
	if err != nil {
		return nil, err
	}

	report := &CycleReport{Amounts: make([]float64, 0, len(txs))}
	for _, tx := range txs {
		report.Amounts = append(report.Amounts, tx.AbsAmount())
	}

	report.Suspicious = anomaly.Suspicious(report.Amounts)
	if len(report.Suspicious) == 0 {
		return report, nil
	}
	m.metrics.RecordFlagged(len(report.Suspicious))

	prompt := RationalePrompt(report.Suspicious, report.Amounts)
	report.Rationale = llm.Complete(ctx, m.gen, prompt)

	m.logger.Warn("suspicious amounts detected",
		xlogger.String("subject", m.cfg.SubjectID),
		xlogger.Floats("suspicious", report.Suspicious),
		xlogger.Int("history", len(report.Amounts)),
	)

	m.publish(ctx, report)

	res, err := m.notifier.Notify(ctx, m.cfg.SubjectID, report.Rationale)
	if err != nil {
		m.metrics.RecordNotification("error")
		return report, fmt.Errorf("notify failed: %w", err)
	}
	if !res.OK {
		m.metrics.RecordNotification("rejected")
		m.logger.Warn("notification not routed", xlogger.String("error", res.Error))
		return report, nil
	}

	m.metrics.RecordNotification("ok")
	report.Notified = true
	m.logger.Info("support notified",
		xlogger.String("routed_to", res.RoutedTo),
		xlogger.String("message_id", res.MessageID),
	)
	return report, nil
}

func (m *RiskMonitor) publish(ctx context.Context, report *CycleReport) {
	if m.alerts == nil {
		return
	}
	ev := &models.AnomalyEvent{
		UserID:     m.cfg.SubjectID,
		Suspicious: report.Suspicious,
		History:    report.Amounts,
		Rationale:  report.Rationale,
		DetectedAt: m.now().UTC(),
	}
	if err := m.alerts.PublishAnomaly(ctx, ev); err != nil {
		m.logger.Warn("anomaly event publish failed", xlogger.Error(err))
	}
}

// RationalePrompt asks the model why the flagged amounts stand out.
func RationalePrompt(suspicious, history []float64) string {
	return fmt.Sprintf("Explain in 2 sentences why %s looks anomalous. History: %s",
		formatAmounts(suspicious), formatAmounts(history))
}

func formatAmounts(xs []float64) string {
	b := make([]byte, 0, len(xs)*8+2)
	b = append(b, '[')
	for i, x := range xs {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, fmt.Sprintf("%g", x)...)
	}
	return string(append(b, ']'))
}
