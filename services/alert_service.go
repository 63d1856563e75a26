package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rightssphere/catalog"
	"rightssphere/metrics"
	"rightssphere/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// displayTime matches the en-US locale string clients render.
const displayTime = "1/2/2006, 3:04:05 PM"

// DispatchResult is the outcome of one send attempt on one channel.
type DispatchResult struct {
	Channel   models.Channel `json:"channel"`
	Recipient string         `json:"recipient,omitempty"`
	Success   bool           `json:"success"`
	Reference string         `json:"reference,omitempty"`
	Message   string         `json:"message,omitempty"`
}

type EmergencyBroadcaster interface {
	SendEmergencyAlert(ctx context.Context, a EmergencyAlert) ([]DispatchResult, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// AlertChannels holds the senders for each channel. A nil sender leaves
// its channel unimplemented: contacts on it are logged and skipped.
type AlertChannels struct {
	Social EmergencyBroadcaster
	SMS    SMSSender
	Email  EmailSender
}

type SendAlertInput struct {
	UserID        string
	Location      models.Location
	Contacts      []models.Contact
	CustomMessage string
	AlertType     string
}

type SendAlertResult struct {
	Alert     *models.Alert
	Results   []DispatchResult
	SentCount int
}

type AlertService struct {
	db       *gorm.DB
	channels AlertChannels
	bus      *AlertBus
	catalog  *catalog.Catalog
	log      *zap.Logger
	now      func() time.Time
}

func NewAlertService(db *gorm.DB, channels AlertChannels, bus *AlertBus, log *zap.Logger) *AlertService {
	return &AlertService{
		db:       db,
		channels: channels,
		bus:      bus,
		catalog:  catalog.Default(),
		log:      log.Named("alerts"),
		now:      time.Now,
	}
}

// Send stores a pending alert, dispatches it on every populated channel and
// records the outcome. Channel failures never fail the call; only a
// missing field or a failed insert does.
func (s *AlertService) Send(ctx context.Context, in SendAlertInput) (*SendAlertResult, error) {
	if strings.TrimSpace(in.UserID) == "" || in.Location.IsZero() {
		return nil, invalid("User ID and location are required")
	}

	now := s.now()
	locationText := in.Location.String()
	message := in.CustomMessage
	if strings.TrimSpace(message) == "" {
		message = s.catalog.RenderEmergency(locationText, now.Format(displayTime))
	}
	if in.Contacts == nil {
		in.Contacts = []models.Contact{}
	}

	alert := &models.Alert{
		AlertID:              uuid.NewString(),
		UserID:               in.UserID,
		Timestamp:            now.UTC(),
		Location:             in.Location,
		RecipientContactInfo: in.Contacts,
		MessageTemplate:      message,
		AlertType:            orDefault(in.AlertType, "emergency"),
		Status:               models.AlertPending,
	}
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, fmt.Errorf("save alert: %w: %w", ErrStore, err)
	}
	s.bus.Created(alert)

	results := s.dispatch(ctx, alert, locationText, now)

	sent := 0
	for _, r := range results {
		if r.Success {
			sent++
		}
	}
	status := models.AlertFailed
	if sent > 0 {
		status = models.AlertSent
	}

	if err := s.db.WithContext(ctx).Model(alert).Update("status", status).Error; err != nil {
		s.log.Error("update alert status", zap.String("alert_id", alert.AlertID), zap.Error(err))
	}
	alert.Status = status
	s.bus.Updated(alert, results, sent)

	s.log.Info("alert processed",
		zap.String("alert_id", alert.AlertID),
		zap.String("user_id", alert.UserID),
		zap.String("status", string(status)),
		zap.Int("results", len(results)),
		zap.Int("sent", sent),
	)
	return &SendAlertResult{Alert: alert, Results: results, SentCount: sent}, nil
}

// dispatch runs every populated channel concurrently and waits for all of
// them. Each goroutine owns one slot of the results slice.
func (s *AlertService) dispatch(ctx context.Context, alert *models.Alert, locationText string, now time.Time) []DispatchResult {
	parts := models.PartitionContacts(alert.RecipientContactInfo)

	type job struct {
		channel models.Channel
		run     func(context.Context) []DispatchResult
	}
	var jobs []job

	if recips := parts[models.ChannelFarcaster]; len(recips) > 0 {
		if s.channels.Social == nil {
			s.log.Warn("farcaster channel not configured", zap.Int("contacts", len(recips)))
		} else {
			jobs = append(jobs, job{models.ChannelFarcaster, func(ctx context.Context) []DispatchResult {
				return s.sendSocial(ctx, alert, recips, locationText, now)
			}})
		}
	}
	if recips := parts[models.ChannelSMS]; len(recips) > 0 {
		if s.channels.SMS == nil {
			s.log.Info("sms alerts not sent, channel not configured", zap.Strings("phones", addresses(recips)))
		} else {
			jobs = append(jobs, job{models.ChannelSMS, func(ctx context.Context) []DispatchResult {
				return s.sendSMS(ctx, alert, recips)
			}})
		}
	}
	if recips := parts[models.ChannelEmail]; len(recips) > 0 {
		if s.channels.Email == nil {
			s.log.Info("email alerts not sent, channel not configured", zap.Strings("emails", addresses(recips)))
		} else {
			jobs = append(jobs, job{models.ChannelEmail, func(ctx context.Context) []DispatchResult {
				return s.sendEmail(ctx, alert, recips, locationText, now)
			}})
		}
	}

	slots := make([][]DispatchResult, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() error {
			start := time.Now()
			slots[i] = j.run(ctx)
			metrics.DispatchDuration.WithLabelValues(string(j.channel)).Observe(time.Since(start).Seconds())
			return nil
		})
	}
	_ = g.Wait()

	results := []DispatchResult{}
	for _, rs := range slots {
		for _, r := range rs {
			outcome := "failure"
			if r.Success {
				outcome = "success"
			}
			metrics.DispatchTotal.WithLabelValues(string(r.Channel), outcome).Inc()
			results = append(results, r)
		}
	}
	return results
}

func (s *AlertService) sendSocial(ctx context.Context, alert *models.Alert, recips []models.Recipient, locationText string, now time.Time) []DispatchResult {
	res, err := s.channels.Social.SendEmergencyAlert(ctx, EmergencyAlert{
		Message:       alert.MessageTemplate,
		Location:      locationText,
		Timestamp:     now.Format(displayTime),
		RecipientFIDs: addresses(recips),
	})
	if err != nil {
		s.log.Error("sending farcaster alerts", zap.String("alert_id", alert.AlertID), zap.Error(err))
		return nil
	}
	return res
}

func (s *AlertService) sendSMS(ctx context.Context, alert *models.Alert, recips []models.Recipient) []DispatchResult {
	out := make([]DispatchResult, 0, len(recips))
	for _, r := range recips {
		res := DispatchResult{Channel: models.ChannelSMS, Recipient: r.Address}
		id, err := s.channels.SMS.SendSMS(ctx, r.Address, alert.MessageTemplate)
		if err != nil {
			s.log.Warn("sms alert failed", zap.String("alert_id", alert.AlertID), zap.Error(err))
			res.Message = err.Error()
		} else {
			res.Success, res.Reference = true, id
		}
		out = append(out, res)
	}
	return out
}

func (s *AlertService) sendEmail(ctx context.Context, alert *models.Alert, recips []models.Recipient, locationText string, now time.Time) []DispatchResult {
	subject := "🚨 Emergency alert from RightsSphere"
	body := fmt.Sprintf("%s\n\nLocation: %s\nTime: %s\n\nPlease monitor this situation.",
		alert.MessageTemplate, locationText, now.Format(displayTime))

	out := make([]DispatchResult, 0, len(recips))
	for _, r := range recips {
		res := DispatchResult{Channel: models.ChannelEmail, Recipient: r.Address}
		if err := s.channels.Email.SendEmail(ctx, r.Address, subject, body); err != nil {
			s.log.Warn("email alert failed", zap.String("alert_id", alert.AlertID), zap.Error(err))
			res.Message = err.Error()
		} else {
			res.Success = true
		}
		out = append(out, res)
	}
	return out
}

// ListByUser returns a user's alerts, newest first.
func (s *AlertService) ListByUser(ctx context.Context, userID string) ([]models.Alert, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalid("User ID is required")
	}
	alerts := []models.Alert{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp desc").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("list alerts: %w: %w", ErrStore, err)
	}
	return alerts, nil
}

func addresses(recips []models.Recipient) []string {
	out := make([]string, len(recips))
	for i, r := range recips {
		out[i] = r.Address
	}
	return out
}
