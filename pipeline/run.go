package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"auto_article_pipeline/publisher"
)

// StatusSink receives the run log after every append. *store.JobStore satisfies it.
type StatusSink interface {
	UpdateProgress(ctx context.Context, jobID, logs, currentStep string) error
}

// Credentials are the secrets a run may use.
type Credentials struct {
	LLMAPIKey string
	Sites     []publisher.Site
}

const sinkTimeout = 2 * time.Second

// RunContext is the state of one pipeline run. It is never shared between
// runs, so it needs no locking.
type RunContext struct {
	jobID     string
	topic     string
	logs      []string
	simulated bool
	creds     Credentials
	sink      StatusSink
	logger    *slog.Logger
}

// NewRunContext creates a run. sink and logger may be nil.
func NewRunContext(jobID string, creds Credentials, sink StatusSink, logger *slog.Logger) *RunContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunContext{
		jobID:  jobID,
		creds:  creds,
		sink:   sink,
		logger: logger.With(slog.String("job_id", jobID)),
	}
}

func (rc *RunContext) JobID() string            { return rc.jobID }
func (rc *RunContext) Topic() string            { return rc.topic }
func (rc *RunContext) SetTopic(topic string)    { rc.topic = strings.TrimSpace(topic) }
func (rc *RunContext) Credentials() Credentials { return rc.creds }
func (rc *RunContext) IsSimulated() bool        { return rc.simulated }

// MarkSimulated flags the run as simulated. The flag never clears.
func (rc *RunContext) MarkSimulated() {
	if !rc.simulated {
		rc.logger.Warn("run switched to simulation")
	}
	rc.simulated = true
}

// Log appends "[source] message" and forwards the log to the status sink.
func (rc *RunContext) Log(source, message string) {
	line := message
	if source != "" {
		line = "[" + source + "] " + message
	}
	rc.logs = append(rc.logs, line)
	rc.logger.Info(message, slog.String("source", source))
	rc.push()
}

// Logs returns a copy of the log.
func (rc *RunContext) Logs() []string {
	return append([]string(nil), rc.logs...)
}

// LogText is the log joined by newlines.
func (rc *RunContext) LogText() string {
	return strings.Join(rc.logs, "\n")
}

var stepLineRe = regexp.MustCompile(`^\[([^\]]+)\]\s*(.*)$`)

// CurrentStep renders the newest "[Source] message" line as "Source: message".
func (rc *RunContext) CurrentStep() string {
	for i := len(rc.logs) - 1; i >= 0; i-- {
		m := stepLineRe.FindStringSubmatch(rc.logs[i])
		if m == nil {
			continue
		}
		label := []rune(m[1] + ": " + m[2])
		if len(label) > 100 {
			label = label[:100]
		}
		return string(label)
	}
	return ""
}

// push is best effort: sink errors are logged and dropped.
func (rc *RunContext) push() {
	if rc.sink == nil || rc.jobID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()
	if err := rc.sink.UpdateProgress(ctx, rc.jobID, rc.LogText(), rc.CurrentStep()); err != nil {
		rc.logger.Warn("status sink update failed", slog.Any("error", err))
	}
}
