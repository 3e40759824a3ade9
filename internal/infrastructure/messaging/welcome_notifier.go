package messaging

import (
	"context"

	"github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-registration/pkg/mailer/templates"
)

// Publisher is satisfied by *helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// WelcomeNotifier queues a welcome email for every newly registered user.
// The email worker renders and sends it.
type WelcomeNotifier struct {
	pub         Publisher
	companyName string
	appName     string
}

func NewWelcomeNotifier(pub Publisher, companyName, appName string) *WelcomeNotifier {
	return &WelcomeNotifier{pub: pub, companyName: companyName, appName: appName}
}

func (n *WelcomeNotifier) NotifyRegistered(ctx context.Context, u application.UserResponse) error {
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data: mailtpl.NewWelcomeData(n.companyName, n.appName, u.Name, u.Email,
			mailtpl.WithCreated(u.Created),
			mailtpl.WithPhoneCount(len(u.Phones)),
		),
	}
	return n.pub.PublishJSON(ctx, job)
}

var _ application.Notifier = (*WelcomeNotifier)(nil)
