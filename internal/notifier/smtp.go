package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"

	"shop-backend/internal/config"
	"shop-backend/internal/model"
)

const confirmationTemplate = `From: {{.From}}
To: {{.To}}
Subject: Order {{.Order.ID}} confirmed

Your payment was received and order {{.Order.ID}} is confirmed.

Items:
{{range .Items}}  - {{.ProductID}} x{{.Quantity}} @ {{.UnitPriceMajor}}
{{end}}
Total: {{.TotalMajor}}

Shipping to: {{.Order.ShippingAddress}}
`

type itemView struct {
	ProductID      string
	Quantity       int32
	UnitPriceMajor string
}

type smtpNotifierImpl struct {
	cfg  config.SMTP
	tmpl *template.Template
}

func NewSMTPNotifier(cfg config.SMTP) Notifier {
	return &smtpNotifierImpl{
		cfg:  cfg,
		tmpl: template.Must(template.New("confirmation").Parse(confirmationTemplate)),
	}
}

func (n *smtpNotifierImpl) SendOrderConfirmation(ctx context.Context, toAddress string, order *model.Order, items []*model.OrderItem) error {
	total, err := model.NewPrice(order.TotalPrice)
	if err != nil {
		return fmt.Errorf("order total: %w", err)
	}

	views := make([]itemView, len(items))
	for i, item := range items {
		unit, err := model.NewPrice(item.UnitPrice)
		if err != nil {
			return fmt.Errorf("item %s unit price: %w", item.ProductID, err)
		}
		views[i] = itemView{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceMajor: unit.MajorString(),
		}
	}

	var body bytes.Buffer
	err = n.tmpl.Execute(&body, map[string]interface{}{
		"From":       n.cfg.From,
		"To":         toAddress,
		"Order":      order,
		"Items":      views,
		"TotalMajor": total.MajorString(),
	})
	if err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}

	addr := n.cfg.Host + ":" + n.cfg.Port
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{toAddress}, body.Bytes()); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
