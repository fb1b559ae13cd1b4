package moderator

import (
	"MediVerify/internal/bot/messages"
	"MediVerify/internal/core/ports"
	"context"
	"fmt"
	"html"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier pushes verification events to Telegram: new submissions to the
// moderator chat, outcomes to the subject when they linked a chat.
type Notifier struct {
	bot             ports.BotClientPort
	users           ports.UserRepository
	moderatorChatID int64
	log             zerolog.Logger
}

func NewNotifier(bot ports.BotClientPort, users ports.UserRepository, moderatorChatID int64, baseLogger *zerolog.Logger) *Notifier {
	return &Notifier{
		bot:             bot,
		users:           users,
		moderatorChatID: moderatorChatID,
		log:             baseLogger.With().Str("component", "moderator_notifier").Logger(),
	}
}

// Subscribe attaches the notifier to every verification topic.
func (n *Notifier) Subscribe(bus ports.EventBus) {
	bus.Subscribe(ports.TopicDoctorSubmitted, n.onSubmitted)
	bus.Subscribe(ports.TopicDoctorReviewed, n.onReviewed)
	bus.Subscribe(ports.TopicDoctorReopened, n.onReopened)
	bus.Subscribe(ports.TopicAadhaarVerified, n.onIdentityVerified)
	bus.Subscribe(ports.TopicAbhaVerified, n.onIdentityVerified)
}

func (n *Notifier) onSubmitted(ctx context.Context, e ports.Event) error {
	ev, ok := e.Data.(ports.DoctorVerificationEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T on %s", e.Data, e.Topic)
	}
	if n.moderatorChatID == 0 {
		n.log.Debug().Msg("No moderator chat configured, skipping submission notice")
		return nil
	}

	name := ev.Verification.DoctorID.String()
	if u, err := n.users.GetByID(ctx, ev.Verification.DoctorID); err == nil && u != nil {
		name = u.FullName
	}

	text := fmt.Sprintf(
		"🩺 New credential submission from <b>%s</b> (%d documents).\nUse /pending to review.",
		html.EscapeString(name), len(ev.Verification.Documents),
	)
	msg := messages.NewBuilder(n.moderatorChatID).
		WithText(text).
		WithInlineButtons(messages.ReviewButtons(ev.Verification.ID)).
		Build()
	return n.bot.SendMessage(ctx, msg)
}

func (n *Notifier) onReviewed(ctx context.Context, e ports.Event) error {
	ev, ok := e.Data.(ports.DoctorVerificationEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T on %s", e.Data, e.Topic)
	}
	return n.tell(ctx, ev.Verification.DoctorID, messages.Outcome(&ev.Verification))
}

func (n *Notifier) onReopened(ctx context.Context, e ports.Event) error {
	ev, ok := e.Data.(ports.DoctorVerificationEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T on %s", e.Data, e.Topic)
	}
	return n.tell(ctx, ev.Verification.DoctorID,
		"ℹ️ Your credential verification was reopened. Your profile is hidden from patients until it is approved again.")
}

func (n *Notifier) onIdentityVerified(ctx context.Context, e ports.Event) error {
	ev, ok := e.Data.(ports.IdentityVerifiedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T on %s", e.Data, e.Topic)
	}
	label := "Aadhaar"
	if ev.Kind == "abha" {
		label = "ABHA"
	}
	return n.tell(ctx, ev.SubjectID,
		fmt.Sprintf("✅ Your %s %s is verified.", label, html.EscapeString(ev.Display)))
}

// tell messages a user if they have a linked chat.
func (n *Notifier) tell(ctx context.Context, userID uuid.UUID, text string) error {
	u, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil || u.TelegramChatID == nil {
		n.log.Debug().Str("user_id", userID.String()).Msg("User has no telegram chat, skipping notice")
		return nil
	}
	return n.bot.SendMessage(ctx, messages.NewBuilder(*u.TelegramChatID).WithText(text).Build())
}
