package sender

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/harshpatel-22/subsight-backend/internal/models"
)

var reminderTemplate = template.Must(template.New("reminder").Parse(`<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 20px; background-color: #f7f7f7;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #fff; padding: 30px; border-radius: 8px;">
    <h2 style="color: rgb(0, 47, 255); margin-top: 0;">Hi {{.Name}},</h2>
    <p>Just a friendly reminder that your subscription for <strong style="color: rgb(0, 47, 255);">{{.SubscriptionName}}</strong> is due on <strong style="color: rgb(230, 43, 43);">{{.EndDate}}</strong>.</p>
    <div style="margin-bottom: 20px; padding: 15px; border: 1px solid #ddd; border-radius: 4px; background-color: #f9f9f9;">
      <p style="margin: 0 0 5px;"><strong>Billing Cycle:</strong> {{.BillingCycle}} month(s)</p>
      <p style="margin: 0 0 5px;"><strong>Renewal Method:</strong> {{.RenewalMethod}}</p>
      <p style="margin: 0;"><strong>Notes:</strong> {{.Notes}}</p>
    </div>
    <p>Please review your subscription details and take any necessary action before the renewal date.</p>
    <hr style="border: 1px solid #eee;">
    <p style="font-size: 0.9em; color: #777;">Best regards,<br>The <strong style="color: rgb(0, 47, 255);">SubSight</strong> Team</p>
  </div>
</body>`))

type reminderView struct {
	Name             string
	SubscriptionName string
	EndDate          string
	BillingCycle     int
	RenewalMethod    string
	Notes            string
}

// Subject тема письма-напоминания.
func Subject(email models.ReminderEmail) string {
	return fmt.Sprintf("Reminder: %s is renewing soon!", email.SubscriptionName)
}

// RenderReminder собирает HTML письма. Значения экранируются шаблоном.
func RenderReminder(email models.ReminderEmail) (string, error) {
	notes := email.Notes
	if notes == "" {
		notes = "—"
	}
	name := email.Name
	if name == "" {
		name = "there"
	}

	var buf bytes.Buffer
	err := reminderTemplate.Execute(&buf, reminderView{
		Name:             name,
		SubscriptionName: email.SubscriptionName,
		EndDate:          email.EndDate.Format("January 2, 2006"),
		BillingCycle:     email.BillingCycle,
		RenewalMethod:    string(email.RenewalMethod),
		Notes:            notes,
	})
	if err != nil {
		return "", fmt.Errorf("sender.RenderReminder: %w", err)
	}
	return buf.String(), nil
}
