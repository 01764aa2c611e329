package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/hcnaf/Logging-MentoringProgram/internal/aggregator"
	"github.com/hcnaf/Logging-MentoringProgram/internal/async"
	"github.com/hcnaf/Logging-MentoringProgram/internal/clock"
	"github.com/hcnaf/Logging-MentoringProgram/internal/config"
	"github.com/hcnaf/Logging-MentoringProgram/internal/email"
	"github.com/hcnaf/Logging-MentoringProgram/internal/eventlog"
	"github.com/hcnaf/Logging-MentoringProgram/internal/hub"
	"github.com/hcnaf/Logging-MentoringProgram/internal/logpipe"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/output"
	"github.com/hcnaf/Logging-MentoringProgram/internal/rolling"
)

// sinkFactory opens the sinks that touch the outside world. Tests replace
// its functions with fakes.
type sinkFactory struct {
	console      io.Writer
	clock        clock.Clock
	openEventLog func(appName string) (logpipe.Sink, error)
	newMailer    func(config.EmailSettings) (email.Mailer, error)
	loadSettings func(path string) (config.EmailSettings, error)
}

func defaultSinkFactory(console io.Writer) sinkFactory {
	return sinkFactory{
		console: console,
		clock:   clock.Real(),
		openEventLog: func(appName string) (logpipe.Sink, error) {
			return eventlog.New(appName)
		},
		newMailer: func(s config.EmailSettings) (email.Mailer, error) {
			return email.NewSMTPMailer(s)
		},
		loadSettings: config.LoadEmailSettings,
	}
}

// stack is the assembled logging pipeline plus the sinks other components
// need direct access to.
type stack struct {
	pipeline *logpipe.Pipeline
	hub      *hub.Hub
	stats    *aggregator.Aggregator
	digest   *email.Digest
	clock    clock.Clock
	warnings []string
}

// buildPipeline registers the sinks in their fixed order: console, rolling
// file, system log, immediate fatal email, warning digest, live hub, stats.
// Email settings problems are fatal; an unavailable system log is not.
func buildPipeline(cfg *config.Config, f sinkFactory) (*stack, error) {
	global := model.SeverityInformation
	if cfg.IsDebug() {
		global = model.SeverityDebug
	}

	overrides := make([]logpipe.Override, 0, len(cfg.Logging.Overrides))
	for _, o := range cfg.Logging.Overrides {
		sev, err := model.ParseSeverity(o.Level)
		if err != nil {
			return nil, fmt.Errorf("logging override %q: %w", o.Prefix, err)
		}
		overrides = append(overrides, logpipe.Override{Prefix: o.Prefix, Minimum: sev})
	}

	// Load email settings before opening anything so a bad file leaves
	// nothing to clean up.
	var mailer email.Mailer
	var settings config.EmailSettings
	if cfg.Email.Enabled {
		var err error
		if settings, err = f.loadSettings(cfg.Email.SettingsFile); err != nil {
			return nil, err
		}
		if mailer, err = f.newMailer(settings); err != nil {
			return nil, fmt.Errorf("email: %w", err)
		}
	}

	st := &stack{clock: f.clock}
	var opts []logpipe.Option
	onError := func(sink string) func(error) {
		return func(err error) { log.Printf("logpipe: sink %s failed: %v", sink, err) }
	}

	if cfg.Logging.Console {
		opts = append(opts, logpipe.WithSink("console", logpipe.KindConsole, output.NewTextRendererTo(f.console), global))
	}

	file, err := rolling.New(cfg.Logging.Dir)
	if err != nil {
		return nil, fmt.Errorf("open log directory: %w", err)
	}
	opts = append(opts, logpipe.WithSink("file", logpipe.KindFile, file, model.SeverityDebug))

	if cfg.Logging.EventLog.Enabled {
		sink, err := f.openEventLog(cfg.Logging.EventLog.AppName)
		if err != nil {
			st.warnings = append(st.warnings, fmt.Sprintf("system log disabled: %v", err))
		} else {
			opts = append(opts, logpipe.WithSink("eventlog", logpipe.KindEventLog, sink, model.SeverityDebug))
		}
	}

	if mailer != nil {
		fatal := async.New(email.NewImmediate(mailer, settings.EmailSubject), async.WithOnError(onError("email-fatal")))
		st.digest = email.NewDigest(mailer, settings.EmailSubject, cfg.Email.DigestPeriod,
			email.WithClock(f.clock),
			email.WithOnError(onError("email-digest")),
			email.WithFlushOnClose(cfg.Email.FlushOnShutdown),
		)
		opts = append(opts,
			logpipe.WithSink("email-fatal", logpipe.KindEmail, fatal, model.SeverityFatal),
			logpipe.WithSink("email-digest", logpipe.KindEmail, st.digest, model.SeverityWarning),
		)
	}

	st.hub = hub.New()
	st.stats = aggregator.New(
		aggregator.WithClock(f.clock),
		aggregator.WithLiveStats(st.hub.Dropped, st.hub.Subscribers),
	)
	opts = append(opts,
		logpipe.WithSink("live", logpipe.KindLive, st.hub, model.SeverityDebug),
		logpipe.WithSink("stats", logpipe.KindStats, st.stats, model.SeverityDebug),
		logpipe.WithClock(f.clock),
	)

	st.pipeline = logpipe.New(logpipe.NewLevelResolver(global, overrides...), opts...)
	return st, nil
}
