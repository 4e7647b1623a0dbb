package mail

import (
	"fmt"
	"html"
	"net/url"
)

const bodyWrapper = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; background-color: #f5f5f5;">%s</div>`

const buttonStyle = `display: inline-block; padding: 10px 20px; background-color: #007bff; color: #fff; text-decoration: none; border-radius: 5px;`

// InvitationBody renders the email sent with a freshly issued invitation.
// The link carries the raw token and the invited email; the role is shown so
// the invitee knows what they are accepting.
func InvitationBody(baseURL, email, token, role, invitedBy string) (subject, body string) {
	link := fmt.Sprintf("%s/invitations/accept?email=%s&token=%s",
		baseURL, url.QueryEscape(email), url.QueryEscape(token))

	subject = "You have been invited to NextPrep"

	issuerLine := ""
	if invitedBy != "" {
		issuerLine = fmt.Sprintf("<p>Invited by %s.</p>", html.EscapeString(invitedBy))
	}

	body = fmt.Sprintf(bodyWrapper, fmt.Sprintf(`
		<h2 style="color: #333; text-align: center;">You're invited</h2>
		<p>Hello,</p>
		<p>You have been invited to join NextPrep as a <strong>%s</strong>. Sign in with this
		email address, then open the link below to accept:</p>
		<p style="text-align: center;"><a href="%s" style="%s">Accept invitation</a></p>
		%s
		<p>If you did not expect this invitation you can ignore this email.</p>
		<p>— The NextPrep team</p>`,
		html.EscapeString(role), link, buttonStyle, issuerLine))

	return subject, body
}

// RecoveryBody renders the forced password-reset email.
func RecoveryBody(baseURL, token string) (subject, body string) {
	link := fmt.Sprintf("%s/account/recover?token=%s", baseURL, url.QueryEscape(token))

	subject = "Reset your NextPrep password"
	body = fmt.Sprintf(bodyWrapper, fmt.Sprintf(`
		<h2 style="color: #333; text-align: center;">Password reset</h2>
		<p>Hello,</p>
		<p>A password reset was requested for your account. Open the link below to choose a
		new password:</p>
		<p style="text-align: center;"><a href="%s" style="%s">Reset password</a></p>
		<p>If you did not request this, contact support immediately.</p>
		<p>— The NextPrep team</p>`,
		link, buttonStyle))

	return subject, body
}

// ContactBody renders the internal notification for a contact-form message.
func ContactBody(name, email, msgSubject, msgBody string) (subject, body string) {
	subject = fmt.Sprintf("Contact form: %s", msgSubject)
	body = fmt.Sprintf(bodyWrapper, fmt.Sprintf(`
		<h2 style="color: #333;">New contact message</h2>
		<p><strong>From:</strong> %s &lt;%s&gt;</p>
		<p>%s</p>`,
		html.EscapeString(name), html.EscapeString(email), html.EscapeString(msgBody)))

	return subject, body
}
