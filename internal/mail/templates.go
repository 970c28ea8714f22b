package mail

import "fmt"

// WelcomeBody is sent to the first admin after institution registration.
func WelcomeBody(institutionName, code, loginURL string) (subject, html string) {
	subject = "Institution Registration Successful"
	html = fmt.Sprintf(`
        <h1>Welcome to CampusHub!</h1>
        <p>Your institution <strong>%s</strong> has been successfully registered.</p>
        <p><strong>Institution Code:</strong> %s</p>
        <p><strong>Login URL:</strong> <a href="%s">%s</a></p>
        <p>Share this code or URL with your students so they can join.</p>`,
		institutionName, code, loginURL, loginURL)
	return subject, html
}

// ResetBody carries the raw reset token inside a link. The token appears
// only here and in the HTTP response path that consumes it, never in logs
// or storage.
func ResetBody(institutionName, resetURL string) (subject, html string) {
	subject = "Reset Your Password - CampusHub"
	html = fmt.Sprintf(`
        <h2>Reset Your Password</h2>
        <p>You have requested a password reset for your CampusHub account at <strong>%s</strong>.</p>
        <p>Click the link below to reset your password. This link expires in 15 minutes.</p>
        <a href="%s">Reset Password</a>
        <p>If you did not request this, please ignore this email.</p>`,
		institutionName, resetURL)
	return subject, html
}

// PasswordChangedBody confirms a completed reset or password change.
func PasswordChangedBody() (subject, html string) {
	subject = "Your Password Was Changed - CampusHub"
	html = `
        <h2>Password Changed</h2>
        <p>Your password was successfully changed.</p>
        <p>If you did not initiate this, please contact support immediately.</p>`
	return subject, html
}
