package notify

import (
	"fmt"
	"html"
	"strings"
)

// Field is one labelled line in a form digest.
type Field struct {
	Name  string
	Value string
}

// NewsletterWelcome confirms a newsletter signup.
func NewsletterWelcome(to string) EmailMessage {
	return EmailMessage{
		To:       to,
		Category: CategoryNewsletter,
		Subject:  "Welcome to the Primer Realty newsletter",
		Body: "Thanks for subscribing. You'll receive market updates, new listings and " +
			"home tips from Primer Realty.\n\nYou can unsubscribe at any time.",
		HTML: "<p>Thanks for subscribing.</p>" +
			"<p>You'll receive market updates, new listings and home tips from Primer Realty.</p>" +
			"<p style=\"color:#888\">You can unsubscribe at any time.</p>",
	}
}

// FormDigest renders submitted form fields as a plain list, skipping relay
// control fields (names starting with "_").
func FormDigest(to, subject, replyTo string, fields []Field) EmailMessage {
	var text, markup strings.Builder
	markup.WriteString("<table>")
	for _, f := range fields {
		if strings.HasPrefix(f.Name, "_") {
			continue
		}
		fmt.Fprintf(&text, "%s: %s\n", f.Name, f.Value)
		fmt.Fprintf(&markup, "<tr><th align=\"left\">%s</th><td>%s</td></tr>",
			html.EscapeString(f.Name), html.EscapeString(f.Value))
	}
	markup.WriteString("</table>")
	return EmailMessage{
		To:       to,
		ReplyTo:  replyTo,
		Subject:  subject,
		Body:     text.String(),
		HTML:     markup.String(),
		Category: CategoryForm,
	}
}
