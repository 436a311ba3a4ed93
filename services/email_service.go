package services

import (
	"cardspend/config"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	config *config.Config
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
		config: cfg,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// SendPaymentNotification отправляет уведомление о платеже по карте
func (s *EmailService) SendPaymentNotification(to, cardName string, amount, newBalance float64) error {
	subject := "Уведомление о платеже по карте"
	body := fmt.Sprintf(`
		<h2>Платеж принят</h2>
		<p>Карта: %s</p>
		<p>Сумма платежа: %.2f</p>
		<p>Текущий баланс: %.2f</p>
		<p>Дата: %s</p>
	`, cardName, amount, newBalance, time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}

// SendHighUtilizationNotification отправляет предупреждение
// о высоком использовании кредитного лимита
func (s *EmailService) SendHighUtilizationNotification(to, cardName string, utilization float64) error {
	subject := "Высокое использование кредитного лимита"
	body := fmt.Sprintf(`
		<h2>Внимание</h2>
		<p>Карта "%s" использована на %.1f%% лимита.</p>
		<p>Рекомендуем погасить часть баланса, чтобы избежать процентов.</p>
	`, cardName, utilization)

	return s.SendEmail(to, subject, body)
}

// SendRecurringChargeSkippedNotification отправляет уведомление о том,
// что повторяющийся расход не был проведен из-за нехватки кредита
func (s *EmailService) SendRecurringChargeSkippedNotification(to, description string, amount float64) error {
	subject := "Повторяющийся расход не проведен"
	body := fmt.Sprintf(`
		<h2>Повторяющийся расход пропущен</h2>
		<p>Расход: %s</p>
		<p>Сумма: %.2f</p>
		<p>Причина: недостаточно доступного кредита на карте.</p>
	`, description, amount)

	return s.SendEmail(to, subject, body)
}
