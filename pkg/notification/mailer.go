package notification

import (
	"fmt"

	"github.com/go-mail/mail"
)

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewMailer(from, uiURL string, dialer dialer) *Mailer {
	return &Mailer{from: from, uiURL: uiURL, dialer: dialer}
}

type Mailer struct {
	from   string
	uiURL  string
	dialer dialer
}

func (m *Mailer) Send(n Notification) error {
	message, err := m.message(n)
	if err != nil {
		return err
	}
	return m.dialer.DialAndSend(message)
}

func (m *Mailer) message(n Notification) (*mail.Message, error) {
	subject, text, err := content(n)
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/events/%s", m.uiURL, n.EventSlug)
	body := fmt.Sprintf("Hello,<br/><br/>\n%s<br/><br/>\n%s\n", text, link)

	message := mail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", n.Email)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)
	return message, nil
}
