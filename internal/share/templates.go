package share

import (
	"fmt"
	"strings"
)

type Template struct {
	ID      string
	Name    string
	Subject string
	Body    string
}

const DefaultTemplate = "default"

var templates = []Template{
	{
		ID:      "default",
		Name:    "Default Invitation",
		Subject: "Access to Employee Break Management System",
		Body: `Hi {recipientName},

You've been granted access to our Employee Break Management System. This tool allows you to manage employee schedules, breaks, and coverage assignments.

Your access level: {permissions}
Link expires: {expirationDate}

Click the link below to access the system:
{shareLink}

{customMessage}

Best regards,
{senderName}`,
	},
	{
		ID:      "manager",
		Name:    "Manager Access",
		Subject: "Manager Access - Employee Break System",
		Body: `Dear {recipientName},

You now have manager-level access to our Employee Break Management System. This includes:

• View and edit all employee schedules
• Manage break assignments and coverage
• Access management analytics and reports
• Export data and generate reports

Access Details:
- Permission Level: {permissions}
- Link Expires: {expirationDate}
- Access Link: {shareLink}

{customMessage}

Please keep this link secure and do not share it with unauthorized personnel.

Best regards,
{senderName}`,
	},
	{
		ID:      "supervisor",
		Name:    "Supervisor Access - Break Management",
		Subject: "Supervisor Access - Break Management",
		Body: `Hello {recipientName},

You've been granted supervisor access to the Employee Break Management System. You can:

• View and edit employee break schedules
• Assign coverage for breaks
• Add and modify employee information
• View daily and weekly schedules

Access Information:
- Permission Level: {permissions}
- Valid Until: {expirationDate}
- System Link: {shareLink}

{customMessage}

If you have any questions about using the system, please don't hesitate to reach out.

Best regards,
{senderName}`,
	},
}

// Templates lists the available invitation templates.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// LookupTemplate finds a template by id. Unknown ids fall back to the default.
func LookupTemplate(id string) Template {
	for _, t := range templates {
		if t.ID == id {
			return t
		}
	}
	return templates[0]
}

type Invitation struct {
	To      string
	Subject string
	Body    string
}

// Render fills the template placeholders for l.
func (t Template) Render(l Link, senderName, customMessage string) Invitation {
	recipient := l.Name
	if recipient == "" {
		recipient = "[Recipient Name]"
	}
	if senderName == "" {
		senderName = "[Your Name]"
	}

	r := strings.NewReplacer(
		"{recipientName}", recipient,
		"{permissions}", l.Permission.Label(),
		"{expirationDate}", l.ExpiresAt.Format("1/2/2006"),
		"{shareLink}", l.URL,
		"{customMessage}", customMessage,
		"{senderName}", senderName,
	)
	to := l.Email
	if l.Name != "" {
		to = fmt.Sprintf("%s <%s>", l.Name, l.Email)
	}
	return Invitation{To: to, Subject: t.Subject, Body: r.Replace(t.Body)}
}
