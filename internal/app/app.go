// Package app wires configuration, stores, services and transports together.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/xavierca1/agency-backoffice/internal/config"
	"github.com/xavierca1/agency-backoffice/internal/infra/http/handlers"
	"github.com/xavierca1/agency-backoffice/internal/infra/http/middleware"
	"github.com/xavierca1/agency-backoffice/internal/infra/integration/openai"
	"github.com/xavierca1/agency-backoffice/internal/infra/mail"
	"github.com/xavierca1/agency-backoffice/internal/infra/queue"
	"github.com/xavierca1/agency-backoffice/internal/infra/worker"
	"github.com/xavierca1/agency-backoffice/internal/usecase"
)

const Version = "1.0.0"

type App struct {
	Config config.Config
	Logger *slog.Logger

	Projects    *usecase.ProjectService
	Leads       *usecase.LeadService
	Subscribers *usecase.SubscriberService
	Outreach    *usecase.OutreachDispatcher
	Chatbot     *usecase.ChatbotService
	Digest      *usecase.StaleLeadDigest
	Mailer      *mail.Sender
	Effects     *usecase.SideEffects

	stores      *stores
	rabbit      *queue.RabbitMQ
	leadWorker  *queue.LeadAlertWorker
	staleWorker *worker.StaleLeadWorker
	wg          sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st, err := openStores(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, stores: st}

	a.Mailer = mail.NewSender(mail.Config{
		Host:       cfg.Mail.Host,
		Port:       cfg.Mail.Port,
		User:       cfg.Mail.User,
		Password:   cfg.Mail.Password,
		From:       cfg.Mail.From,
		FromName:   cfg.Mail.FromName,
		AdminEmail: cfg.Mail.AdminEmail,
		Agency:     cfg.Agency.Name,
	}, logger.With("component", "mail"))
	if !a.Mailer.Configured() {
		logger.Warn("MAIL_HOST not set; emails will not be delivered")
	}

	switch {
	case cfg.HTTP.OpenAdmin:
		logger.Warn("ADMIN_OPEN is set; back-office routes accept unauthenticated requests")
	case cfg.HTTP.AdminSecret == "":
		logger.Warn("ADMIN_SECRET not set; back-office routes will reject every request")
	}

	a.Effects = usecase.NewSideEffects(logger.With("component", "side-effects"))
	a.Effects.OnFailure(func(o usecase.Outcome) {
		middleware.RecordIntegrationError(o.Kind)
	})

	var notifier usecase.LeadNotifier
	var welcome usecase.WelcomeSender
	var digestSender usecase.DigestSender
	if a.Mailer.Configured() {
		notifier, welcome, digestSender = a.Mailer, a.Mailer, a.Mailer
	}

	if cfg.Queue.URL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.Queue.URL)
		if err != nil {
			logger.Warn("rabbitmq unavailable; lead alerts go straight to email", "error", err)
		} else {
			a.rabbit = rabbit
			notifier = queue.NewLeadEventProducer(rabbit.Ch)
			a.leadWorker = queue.NewLeadAlertWorker(rabbit.Ch, a.Mailer, logger.With("component", "lead-alert-worker"))
		}
	}

	a.Projects = usecase.NewProjectService(st.projects, logger.With("component", "projects"))
	a.Leads = usecase.NewLeadService(st.leads, notifier, a.Effects, logger.With("component", "leads"))
	a.Subscribers = usecase.NewSubscriberService(st.subscribers, welcome, a.Effects, logger.With("component", "newsletter"))
	a.Outreach = usecase.NewOutreachDispatcher(a.Mailer, cfg.Agency.Name, cfg.Agency.SenderName, logger.With("component", "outreach"))

	var chat usecase.ChatCompleter
	if cfg.Chat.APIKey != "" {
		chat = openai.NewClient(openai.Config{
			APIKey:   cfg.Chat.APIKey,
			Model:    cfg.Chat.Model,
			Endpoint: cfg.Chat.Endpoint,
		})
	}
	a.Chatbot = usecase.NewChatbotService(chat, cfg.Chat.SystemPrompt)

	a.Digest = usecase.NewStaleLeadDigest(a.Leads, digestSender, cfg.StaleLeads.MaxAge, logger.With("component", "stale-leads"))
	a.staleWorker, err = worker.NewStaleLeadWorker(a.Digest, cfg.StaleLeads.Schedule, logger.With("component", "stale-lead-worker"))
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Router builds the HTTP surface.
func (a *App) Router() http.Handler {
	logger := a.Logger.With("component", "http")

	var broker func() bool
	if a.rabbit != nil {
		broker = a.rabbit.Connected
	}

	return handlers.NewRouter(handlers.Handlers{
		Projects:   handlers.NewProjectHandler(a.Projects, logger),
		Leads:      handlers.NewLeadHandler(a.Leads, logger),
		Newsletter: handlers.NewNewsletterHandler(a.Subscribers, logger),
		Outreach:   handlers.NewOutreachHandler(a.Outreach, a.Config.Outreach.Delay, logger),
		Chatbot:    handlers.NewChatbotHandler(a.Chatbot, logger),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			projectsDocument:   a.stores.projects,
			leadsDocument:      a.stores.leads,
			newsletterDocument: a.stores.subscribers,
		}, broker, a.Mailer.Configured(), a.Chatbot.Configured(), Version),
	}, handlers.RouterOptions{
		AllowedOrigins: a.Config.HTTP.CORSOrigins,
		AdminSecret:    a.Config.HTTP.AdminSecret,
		OpenAdmin:      a.Config.HTTP.OpenAdmin,
	})
}

// StartWorkers launches the background consumers. They stop when ctx is done.
func (a *App) StartWorkers(ctx context.Context) {
	if a.leadWorker != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.leadWorker.Start(ctx); err != nil {
				a.Logger.Error("lead alert worker exited", "error", err)
			}
		}()
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.staleWorker.Start(ctx); err != nil {
			a.Logger.Error("stale lead worker exited", "error", err)
		}
	}()
}

// Close waits for workers and pending notifications, then releases
// connections. Cancel the context given to StartWorkers first.
func (a *App) Close() error {
	a.wg.Wait()
	if a.Effects != nil {
		a.Effects.Wait()
	}

	var errs []error
	if a.rabbit != nil {
		errs = append(errs, a.rabbit.Close())
	}
	if a.stores != nil {
		errs = append(errs, a.stores.close())
	}
	return errors.Join(errs...)
}
