package utils

import (
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/skip2/go-qrcode"
	mail "github.com/wneessen/go-mail"

	"eshop_back_end/internal/models"
)

// Mailer envoie les emails transactionnels via SMTP. L'envoi est toujours
// best-effort : un échec est loggé, jamais remonté au client.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	iban     string
	bic      string
	holder   string
}

func NewMailer(host string, port int, username, password, from, iban, bic, holder string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		iban:     iban,
		bic:      bic,
		holder:   holder,
	}
}

// SendOrderConfirmation envoie le récapitulatif de commande avec un QR code
// de virement SEPA (format EPC069-12) intégré en base64.
func (m *Mailer) SendOrderConfirmation(to string, order models.OrderDetail) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		log.Printf("❌ Adresse expéditeur invalide: %v", err)
		return
	}
	if err := msg.To(to); err != nil {
		log.Printf("❌ Adresse destinataire invalide: %v", err)
		return
	}

	msg.Subject(fmt.Sprintf("Confirmation de commande %s", order.ID.Hex()))
	msg.SetBodyString(mail.TypeTextHTML, m.orderConfirmationHTML(order))

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
	)
	if err != nil {
		log.Printf("❌ Erreur création client SMTP: %v", err)
		return
	}

	if err := client.DialAndSend(msg); err != nil {
		log.Printf("❌ Erreur envoi email confirmation: %v", err)
		return
	}
	log.Printf("📧 Email de confirmation envoyé à %s", to)
}

func (m *Mailer) orderConfirmationHTML(order models.OrderDetail) string {
	var rows strings.Builder
	for _, item := range order.OrderItems {
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding:8px;border:1px solid #ddd;">%s</td><td style="padding:8px;border:1px solid #ddd;">%d</td><td style="padding:8px;border:1px solid #ddd;">%.2f €</td></tr>`,
			item.Product.Name, item.Quantity, item.Product.Price))
	}

	qrImg := ""
	if qr := m.sepaQRCode(order); qr != "" {
		qrImg = fmt.Sprintf(`<p>Payez par virement en scannant ce QR code :</p><img src="data:image/png;base64,%s" alt="QR virement SEPA" width="200" height="200"/>`, qr)
	}

	return fmt.Sprintf(`
<html>
<body style="font-family:Arial,sans-serif;color:#333;">
	<h2>✅ Merci pour votre commande !</h2>
	<p>Commande <strong>%s</strong> du %s</p>
	<table style="border-collapse:collapse;width:100%%;">
		<tr style="background:#f5f5f5;">
			<th style="padding:8px;border:1px solid #ddd;text-align:left;">Produit</th>
			<th style="padding:8px;border:1px solid #ddd;text-align:left;">Quantité</th>
			<th style="padding:8px;border:1px solid #ddd;text-align:left;">Prix unitaire</th>
		</tr>
		%s
	</table>
	<h3>Total : %.2f €</h3>
	%s
	<p>Livraison : %s, %s %s, %s</p>
</body>
</html>`,
		order.ID.Hex(), order.DateOrdered.Format("02/01/2006"),
		rows.String(), order.TotalPrice, qrImg,
		order.ShippingAddress1, order.Zip, order.City, order.Country)
}

func (m *Mailer) sepaQRCode(order models.OrderDetail) string {
	if m.iban == "" {
		return ""
	}
	payload := fmt.Sprintf("BCD\n002\n1\nSCT\n%s\n%s\n%s\nEUR%.2f\n\n\nCommande %s",
		m.bic, m.holder, m.iban, order.TotalPrice, order.ID.Hex())

	png, err := qrcode.Encode(payload, qrcode.Medium, 200)
	if err != nil {
		log.Printf("⚠️ Erreur génération QR code SEPA: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(png)
}
