package application

import (
	"context"
	"time"

	"github.com/a704/dodream-backend/internal/domain/entity"
	"github.com/a704/dodream-backend/pkg/mailer"
	tpl "github.com/a704/dodream-backend/pkg/mailer/templates"
)

// EmailLoginNotifier enqueues a login_notification email job for the email worker.
type EmailLoginNotifier struct {
	Pub        JobPublisher
	AppName    string
	SupportURL string
}

func NewEmailLoginNotifier(pub JobPublisher, appName, supportURL string) *EmailLoginNotifier {
	return &EmailLoginNotifier{Pub: pub, AppName: appName, SupportURL: supportURL}
}

func (n *EmailLoginNotifier) NotifyLogin(ctx context.Context, u *entity.User, email string, meta LoginMeta) error {
	data := tpl.EmailData{
		Type:       tpl.LoginNotification,
		Name:       u.Name,
		Email:      email,
		AppName:    n.AppName,
		SupportURL: n.SupportURL,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		Time:       meta.At.UTC().Format(time.RFC1123),
	}
	job := mailer.EmailJob{To: email, Template: tpl.LoginNotification, Data: tpl.ToMap(data)}
	return n.Pub.PublishJSON(ctx, job)
}

var _ LoginNotifier = (*EmailLoginNotifier)(nil)
