package handlers

import (
	"html"

	"github.com/gofiber/fiber/v2"
)

const legalStyle = `<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>`

// LegalHandler serves the static policy pages linked from the app's settings.
type LegalHandler struct {
	appName      string
	supportEmail string
}

func NewLegalHandler(appName, supportEmail string) *LegalHandler {
	return &LegalHandler{appName: html.EscapeString(appName), supportEmail: html.EscapeString(supportEmail)}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - ` + h.appName + `</title>
` + legalStyle + `
</head><body>
<h1>Privacy Policy</h1>
<p>Last updated: October 2026</p>
<h2>Information We Collect</h2>
<p>We collect your email address, name, phone number and the bookings, payments and messages you create while using ` + h.appName + `.</p>
<h2>Payments</h2>
<p>Membership payments are processed by FawryPay. We store the payment reference, amount and status, never your wallet credentials.</p>
<h2>How We Use Your Information</h2>
<p>Your data is used to manage your membership, reserve spaces, send the notifications you opted into and let other members reach you through the community directory.</p>
<h2>Account Deletion</h2>
<p>You can delete your account from the app settings. Bookings, notifications and devices are removed; payment records are retained for accounting.</p>
<h2>Contact</h2>
<p>For questions about this policy, contact us at ` + h.supportEmail + `</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - ` + h.appName + `</title>
` + legalStyle + `
</head><body>
<h1>Terms of Service</h1>
<p>Last updated: October 2026</p>
<h2>Acceptance</h2>
<p>By using ` + h.appName + `, you agree to these terms.</p>
<h2>Bookings</h2>
<p>Spaces are booked in whole hours. One credit covers one hour. Cancel confirmed bookings from the app if you cannot attend.</p>
<h2>Memberships</h2>
<p>Memberships last one calendar month from the payment date and grant the plan's monthly credits. They do not renew automatically.</p>
<h2>Community Conduct</h2>
<p>Be respectful in messages and at the space. We may suspend accounts that harass other members.</p>
<h2>Contact</h2>
<p>For questions, contact us at ` + h.supportEmail + `</p>
</body></html>`)
}
