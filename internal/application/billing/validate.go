package billing

import (
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/factura-manual/internal/application/dto"
	"github.com/tu-usuario/factura-manual/internal/domain"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
)

// ParseInvoiceRequest normaliza la entrada cruda del formulario a una
// InvoiceRequest. Transformación pura, sin I/O. Reglas en orden:
//
//  1. Cliente: customer_id presente -> existente; si no, customer_email
//     sintácticamente válido -> invitado; si no, ErrMissingCustomer.
//  2. Líneas: filas de producto no vacías + filas personalizadas no vacías;
//     si ambas quedan vacías, ErrMissingItems.
//  3. Cantidades ausentes valen 1, montos ausentes 0. No se rechazan
//     negativos: el precio capturado por staff es autoritativo tal cual.
//  4. Fee/envío/impuesto entran solo si su monto principal viene en el payload.
func ParseInvoiceRequest(in dto.CreateInvoiceRequest) (*InvoiceRequest, error) {
	req := &InvoiceRequest{}

	// 1. Cliente
	switch {
	case strings.TrimSpace(in.CustomerID) != "":
		req.Customer = CustomerRef{ExistingID: strings.TrimSpace(in.CustomerID)}
	case validEmail(in.CustomerEmail):
		req.Customer = CustomerRef{
			Email:   strings.TrimSpace(in.CustomerEmail),
			Name:    strings.TrimSpace(in.CustomerName),
			Phone:   strings.TrimSpace(in.CustomerPhone),
			Address: strings.TrimSpace(in.CustomerAddress),
			City:    strings.TrimSpace(in.CustomerCity),
			State:   strings.TrimSpace(in.CustomerState),
			Postal:  strings.TrimSpace(in.CustomerPostal),
			Country: strings.TrimSpace(in.CustomerCountry),
		}
	default:
		return nil, domain.ErrMissingCustomer
	}

	// 2. Líneas (productos + personalizadas, en ese orden)
	for _, row := range in.Items {
		if strings.TrimSpace(row.ProductID) == "" {
			continue // fila vacía del formulario
		}
		req.Lines = append(req.Lines, LineItem{
			Kind:      entity.ItemKindProduct,
			ProductID: strings.TrimSpace(row.ProductID),
			Quantity:  defaultQuantity(row.Quantity),
			Total:     row.Total,
		})
	}
	for _, row := range in.CustomItems {
		if strings.TrimSpace(row.Name) == "" {
			continue
		}
		req.Lines = append(req.Lines, LineItem{
			Kind:        entity.ItemKindCustom,
			Name:        strings.TrimSpace(row.Name),
			Description: strings.TrimSpace(row.Description),
			Quantity:    defaultQuantity(row.Quantity),
			Total:       row.Total,
		})
	}
	if len(req.Lines) == 0 {
		return nil, domain.ErrMissingItems
	}

	// 4. Bloques opcionales: solo si el monto principal vino en el payload
	for _, fee := range in.Fees {
		if fee.Amount == nil {
			continue
		}
		name := strings.TrimSpace(fee.Name)
		if name == "" {
			name = "Cargo adicional"
		}
		req.Fees = append(req.Fees, Fee{Name: name, Amount: *fee.Amount})
	}
	if in.Shipping != nil && in.Shipping.Total != nil {
		req.Shipping = &Shipping{
			MethodTitle: strings.TrimSpace(in.Shipping.MethodTitle),
			MethodID:    strings.TrimSpace(in.Shipping.MethodID),
			Total:       *in.Shipping.Total,
		}
	}
	if in.Tax != nil && in.Tax.Total != nil {
		name := strings.TrimSpace(in.Tax.Name)
		if name == "" {
			name = "Impuesto"
		}
		req.Tax = &Tax{Name: name, Total: *in.Tax.Total}
	}

	req.Notes = strings.TrimSpace(in.Notes)
	req.Terms = strings.TrimSpace(in.Terms)
	if d := strings.TrimSpace(in.DueDate); d != "" {
		if due, err := time.Parse("2006-01-02", d); err == nil {
			req.DueDate = &due
		}
	}

	return req, nil
}

// validEmail valida sintaxis RFC 5322 (suficiente para la ruta de invitado).
func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// defaultQuantity aplica la coerción documentada: cantidad ausente o cero vale 1.
func defaultQuantity(q decimal.Decimal) decimal.Decimal {
	if q.IsZero() {
		return decimal.NewFromInt(1)
	}
	return q
}
