package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SubscriberReportData is the summary rendered into the report mail
type SubscriberReportData struct {
	TotalSubscribers  int
	ActiveSubscribers int
	TotalInteractions int
	TotalEmailEntries int
	TotalWins         int
	TotalSpins        int
	TotalDiscounts    int
}

// SendSubscriberReport mails a subscriber summary to the merchant
func SendSubscriberReport(to, shop string, data SubscriberReportData) error {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	if host == "" || from == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("PopReach subscriber report for %s", shop))

	body := fmt.Sprintf(`
		<h2>Your popup performance at a glance</h2>
		<p>Here is the latest subscriber summary for <strong>%s</strong>:</p>
		<ul>
			<li>Total subscribers: <strong>%d</strong></li>
			<li>Active in the last 30 days: <strong>%d</strong></li>
			<li>Popup interactions: <strong>%d</strong></li>
			<li>Email entries: <strong>%d</strong></li>
			<li>Wheel spins: <strong>%d</strong> (wins: %d)</li>
			<li>Discount codes issued: <strong>%d</strong></li>
		</ul>
		<p>Open the PopReach admin to see the full subscriber list.</p>
	`, shop, data.TotalSubscribers, data.ActiveSubscribers, data.TotalInteractions,
		data.TotalEmailEntries, data.TotalSpins, data.TotalWins, data.TotalDiscounts)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(host, port, username, password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
