package mailer

import (
	"fmt"
	"log"

	"labstock/config"

	"gopkg.in/gomail.v2"
)

// Mailer mengirim notifikasi email transisi status. Best-effort: kegagalan
// kirim hanya dicatat di log, tidak pernah menggagalkan transaksi.
type Mailer struct {
	host     string
	port     int
	sender   string
	password string
}

func New() *Mailer {
	return &Mailer{
		host:     config.SMTPHost,
		port:     config.SMTPPort,
		sender:   config.SMTPSender,
		password: config.SMTPPassword,
	}
}

func (m *Mailer) Enabled() bool {
	return m.host != "" && m.sender != ""
}

// SendStatusUpdate mengirim email secara async.
func (m *Mailer) SendStatusUpdate(to, subject, body string) {
	if !m.Enabled() || to == "" {
		return
	}

	go func() {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.sender)
		msg.SetHeader("To", to)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/plain", body)

		dialer := gomail.NewDialer(m.host, m.port, m.sender, m.password)
		if err := dialer.DialAndSend(msg); err != nil {
			log.Println("Warning: failed to send notification email:", err)
		}
	}()
}

// NotifyBorrowingStatus menyusun notifikasi standar perubahan status
// transaksi peminjaman.
func (m *Mailer) NotifyBorrowingStatus(to, code, status, detail string) {
	subject := fmt.Sprintf("[LabStock] Transaksi %s: %s", code, status)
	body := fmt.Sprintf("Status transaksi peminjaman %s kini %s.\n%s", code, status, detail)
	m.SendStatusUpdate(to, subject, body)
}
