package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"github.com/tazhate/tripbot/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Sender delivers a notification to the family.
type Sender interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// Gate reports whether notifications may be sent.
type Gate interface {
	Permission() domain.Permission
}

// Reminders is the part of the reminder repository the scheduler needs.
type Reminders interface {
	List() []domain.FlightReminder
	MarkNotifiedIfUnchanged(snapshot domain.FlightReminder) bool
}

type Scheduler struct {
	cron      *cron.Cron
	interval  time.Duration
	timezone  *time.Location
	reminders Reminders
	gate      Gate
	sender    Sender
	log       *zap.Logger
	now       func() time.Time
	metrics   *metrics
}

type metrics struct {
	ticks   prometheus.Counter
	fired   prometheus.Counter
	skipped prometheus.Counter
	errors  prometheus.Counter
	tickDur prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "reminder_scheduler_ticks_total", Help: "Reminder scheduler ticks",
		}),
		fired: f.NewCounter(prometheus.CounterOpts{
			Name: "reminder_notifications_fired_total", Help: "Flight reminders that fired",
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Name: "reminder_scheduler_skipped_total", Help: "Ticks skipped because notifications are not granted",
		}),
		errors: f.NewCounter(prometheus.CounterOpts{
			Name: "reminder_notification_errors_total", Help: "Notifications the sender failed to deliver",
		}),
		tickDur: f.NewHistogram(prometheus.HistogramOpts{
			Name: "reminder_scheduler_tick_duration_seconds", Help: "Reminder scheduler tick duration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// New builds a scheduler. reg may be nil, in which case metrics are not
// registered anywhere.
func New(reminders Reminders, gate Gate, interval time.Duration, tz *time.Location, log *zap.Logger, reg prometheus.Registerer) *Scheduler {
	if tz == nil {
		tz = time.UTC
	}
	log = log.Named("scheduler")

	c := cron.New(
		cron.WithLocation(tz),
		cron.WithLogger(cronLogger{log.Sugar()}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{log.Sugar()})),
	)

	return &Scheduler{
		cron:      c,
		interval:  interval,
		timezone:  tz,
		reminders: reminders,
		gate:      gate,
		log:       log,
		now:       time.Now,
		metrics:   newMetrics(reg),
	}
}

func (s *Scheduler) SetSender(sender Sender) {
	s.sender = sender
}

// Start registers the reminder check, runs it once and blocks until ctx is
// done. When Start returns no tick is running and none will start.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.Tick(ctx, s.now()) }); err != nil {
		return fmt.Errorf("add reminder check: %w", err)
	}

	s.Tick(ctx, s.now())
	if ctx.Err() != nil {
		return nil
	}

	s.cron.Start()
	s.log.Info("scheduler started", zap.Duration("interval", s.interval), zap.String("tz", s.timezone.String()))

	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop halts the ticks and waits for a running one to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// Tick fires every pending reminder whose window [trigger, flight time)
// contains now. It returns how many fired.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	start := time.Now()
	s.metrics.ticks.Inc()
	defer func() { s.metrics.tickDur.Observe(time.Since(start).Seconds()) }()

	if s.sender == nil || !s.gate.Permission().Granted() {
		s.metrics.skipped.Inc()
		return 0
	}

	ctx, span := otel.Tracer("scheduler").Start(ctx, "reminders.tick")
	defer span.End()

	fired := 0
	for _, r := range s.reminders.List() {
		if r.Notified || !r.IsDue(now) {
			continue
		}

		n := domain.NewFlightNotification(r, s.timezone)
		if err := s.sender.Notify(ctx, n); err != nil {
			s.metrics.errors.Inc()
			span.RecordError(err)
			s.log.Warn("send flight notification", zap.String("id", r.ID), zap.Error(err))
		}

		// At most once: the reminder is marked even if delivery failed.
		if !s.reminders.MarkNotifiedIfUnchanged(r) {
			s.log.Info("reminder changed during tick", zap.String("id", r.ID))
			continue
		}
		fired++
		s.metrics.fired.Inc()
		s.log.Info("flight reminder fired", zap.String("id", r.ID), zap.String("flight", r.FlightNumber),
			zap.Time("flight_time", r.DateTime))
	}

	span.SetAttributes(attribute.Int("reminders.fired", fired))
	return fired
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
