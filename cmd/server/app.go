package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/notify"
	"github.com/tasknest/tasknest-api/internal/observer"
	"github.com/tasknest/tasknest-api/internal/platform/postgres"
	"github.com/tasknest/tasknest-api/internal/scheduler"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/service/auth"
)

// application holds the wired components of the running server.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	sched       *scheduler.TimerScheduler
	kafkaClient *kgo.Client
	taskService service.TaskService
	jwtService  auth.JWTService
	now         func() time.Time
}

// newApplication wires the application components in dependency order:
// database, notification clients, scheduler, observers, service, auth.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	location, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Server.Timezone, err)
	}
	now := func() time.Time { return time.Now().In(location) }

	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		return nil, err
	}

	taskStore := postgres.NewPostgresTaskStore(db, logger)

	// Outbound channels
	slackClient := notify.NewSlackWebhookClient(cfg.Notify.SlackWebhookURL, nil, logger)
	emailClient := notify.NewMailerSendClient(notify.MailerSendConfig{
		APIKey:   cfg.Notify.MailerSendAPIKey,
		BaseURL:  cfg.Notify.MailerSendBaseURL,
		FromName: cfg.Notify.EmailFromName,
		From:     cfg.Notify.EmailFrom,
		ReplyTo:  cfg.Notify.EmailReplyTo,
	}, nil, logger)

	// Reminder scheduling: fired jobs turn into overdue emails.
	reminderExec := notify.NewReminderExecutor(emailClient, logger)
	sched := scheduler.NewTimerScheduler(reminderExec.Execute, logger)

	// Change history sink: Kafka when configured, structured log otherwise.
	var (
		changeSink  observer.ChangeSink
		kafkaClient *kgo.Client
	)
	if cfg.Kafka.Enabled {
		kafkaClient, err = kgo.NewClient(
			kgo.SeedBrokers(cfg.Kafka.Brokers...),
			kgo.DefaultProduceTopic(cfg.Kafka.AuditTopic),
			kgo.AllowAutoTopicCreation(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka client: %w", err)
		}
		changeSink = observer.NewKafkaChangeSink(kafkaClient, cfg.Kafka.AuditTopic, logger)
		logger.Info("audit history publishing to kafka", "topic", cfg.Kafka.AuditTopic)
	} else {
		changeSink = observer.NewSlogChangeSink(logger)
	}

	// Observers in registration order; a failure aborts the rest.
	slackNotifier := observer.NewSlackNotifier(slackClient, logger)
	observers := []observer.TaskObserver{
		observer.NewOverdueNotifier(
			sched,
			taskStore,
			time.Duration(cfg.Scheduler.ReminderLeadMinutes)*time.Minute,
			logger,
		),
		observer.NewChangeHistoryObserver(changeSink, now),
		slackNotifier,
		observer.NewPriorityEscalationNotifier(slackNotifier, logger),
	}

	taskService, err := service.NewTaskService(taskStore, observers, now, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		sched:       sched,
		kafkaClient: kafkaClient,
		taskService: taskService,
		jwtService:  jwtService,
		now:         now,
	}, nil
}

// cleanup releases application resources in reverse wiring order.
func (app *application) cleanup() {
	if app.sched != nil {
		app.sched.Stop()
	}
	if app.kafkaClient != nil {
		app.kafkaClient.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
	app.logger.Info("application cleanup completed")
}
