package mailer

import "fmt"

const otpValidityMinutes = 10

// OTPMessage builds the login-code email.
func OTPMessage(code string) (subject, body string) {
	subject = "Your Login Code - Report Hub"
	body = fmt.Sprintf(
		"Use this 6-digit code to sign in to your account: %s\n\n"+
			"This code will expire in %d minutes. If you didn't request this code, please ignore this email.\n",
		code, otpValidityMinutes)
	return subject, body
}

// OrderDeliveredMessage builds the delivery confirmation email.
func OrderDeliveredMessage(reportTitle, trackingNumber string) (subject, body string) {
	subject = "Your order has been delivered - Report Hub"
	body = fmt.Sprintf("Your printed report %q has been delivered.\n", reportTitle)
	if trackingNumber != "" {
		body += fmt.Sprintf("Tracking number: %s\n", trackingNumber)
	}
	return subject, body
}
