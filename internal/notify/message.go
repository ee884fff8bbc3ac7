package notify

import (
	"fmt"
	"strings"

	"flightwatch/internal/models"
)

// BuildAlertMessage renders the Telegram notification for a found price:
// route, date, found vs. target price, airline, duration, stops and the
// booking link.
func BuildAlertMessage(alert *models.Alert, offer models.Offer) string {
	var b strings.Builder

	b.WriteString("🎉 *¡ALERTA DE VUELO ENCONTRADO!* ✈️\n\n")
	fmt.Fprintf(&b, "*Ruta:* %s → %s\n", alert.Origin, alert.Destination)
	fmt.Fprintf(&b, "*Fecha:* %s\n", alert.DateFrom.Format("02/01/2006"))
	fmt.Fprintf(&b, "*Precio encontrado:* %.2f€\n", offer.PriceEuros)
	if alert.PriceTargetCents != nil {
		fmt.Fprintf(&b, "*Tu objetivo:* %.2f€\n", models.CentsToEuros(*alert.PriceTargetCents))
	}
	fmt.Fprintf(&b, "*Aerolínea:* %s\n", strings.Join(offer.Airlines, ", "))
	fmt.Fprintf(&b, "*Duración:* %s\n", offer.Duration)
	fmt.Fprintf(&b, "*Escalas:* %d\n\n", offer.Stops)
	fmt.Fprintf(&b, "🔗 *[RESERVAR AHORA](%s)*\n\n", offer.BookingLink)
	b.WriteString("💡 _Precio encontrado por tu alerta automática_")

	return b.String()
}
