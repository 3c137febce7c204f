package notify

import (
	"encoding/json"
	"fmt"

	"ruangkampus/internal/events"
	"ruangkampus/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the slice of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier forwards loan lifecycle events to the admin chat.
// Delivery failures are logged and counted; they never reach the caller
// because events must not fail on a flaky chat.
type TelegramNotifier struct {
	sender TelegramSender
	chatID int64
	logger zerolog.Logger
}

func NewTelegramNotifier(sender TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "notify").Logger()
	}
	return &TelegramNotifier{sender: sender, chatID: chatID, logger: base}
}

// SubscribeAll wires the notifier to every loan event on the bus.
func (n *TelegramNotifier) SubscribeAll(bus *events.EventBus) {
	for _, eventType := range []string{
		events.EventLoanCreated,
		events.EventLoanUpdated,
		events.EventLoanApproved,
		events.EventLoanRejected,
		events.EventLoanDeleted,
	} {
		bus.Subscribe(eventType, n.handle)
	}
}

func (n *TelegramNotifier) handle(event *events.Event) error {
	var payload events.LoanEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event", event.Type).Msg("Bad event payload")
		return nil
	}

	text := formatMessage(event.Type, payload)
	if text == "" {
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.sender.Send(msg); err != nil {
		n.logger.Error().Err(err).Str("event", event.Type).Msg("Failed to notify admin chat")
		metrics.IncNotifyFailure()
	}
	return nil
}

func formatMessage(eventType string, p events.LoanEventPayload) string {
	when := fmt.Sprintf("%s — %s",
		p.StartTime.Format("02 Jan 2006 15:04"),
		p.EndTime.Format("15:04"))

	switch eventType {
	case events.EventLoanCreated:
		return fmt.Sprintf("📥 *Pengajuan baru #%d*\n%s\n%s\n%s\nPeminjam: %s",
			p.LoanID, p.RoomName, when, p.Purpose, p.BorrowerName)
	case events.EventLoanUpdated:
		return fmt.Sprintf("✏️ *Pengajuan #%d diperbarui*\n%s\n%s\nPeminjam: %s",
			p.LoanID, p.RoomName, when, p.BorrowerName)
	case events.EventLoanApproved:
		return fmt.Sprintf("✅ *Pengajuan #%d disetujui*\n%s\nPeminjam: %s",
			p.LoanID, p.RoomName, p.BorrowerName)
	case events.EventLoanRejected:
		return fmt.Sprintf("❌ *Pengajuan #%d ditolak*\n%s\nPeminjam: %s",
			p.LoanID, p.RoomName, p.BorrowerName)
	case events.EventLoanDeleted:
		return fmt.Sprintf("🗑 *Pengajuan #%d dihapus*\n%s\nPeminjam: %s",
			p.LoanID, p.RoomName, p.BorrowerName)
	}
	return ""
}
