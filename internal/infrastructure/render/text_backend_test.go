package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/internal/infrastructure/render"
)

// ──────────────────────────────────────────────────────────────────────────────
// TextBackend: cierre de la cadena de backends. Siempre disponible y el
// documento lleva todo lo que un cliente necesita para pagar.
// ──────────────────────────────────────────────────────────────────────────────

func sampleDocument() *billing.InvoiceDocument {
	due := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	shipping := billing.DocumentLine{Name: "Mensajería", Quantity: decimal.NewFromInt(1), Total: decimal.NewFromFloat(12)}
	tax := billing.DocumentLine{Name: "IVA", Quantity: decimal.NewFromInt(1), Total: decimal.NewFromFloat(19)}
	return &billing.InvoiceDocument{
		Number:   "INV-1024",
		Status:   entity.StatusPending,
		IssuedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		DueDate:  &due,
		Company: billing.CompanyBlock{
			Name:   "Tienda Test",
			Email:  "admin@example.com",
			Footer: "© 2026 Tienda Test",
		},
		Customer: billing.CustomerBlock{
			Name:  "Ana Gómez",
			Email: "ana@example.com",
			City:  "Bogotá",
		},
		Lines: []billing.DocumentLine{
			{Name: "Café de origen 500g", Quantity: decimal.NewFromInt(2), Total: decimal.NewFromFloat(50)},
			{Name: "Instalación", Description: "A domicilio", Quantity: decimal.NewFromInt(1), Total: decimal.NewFromFloat(30)},
		},
		Fees:       []billing.DocumentLine{{Name: "Urgencia", Quantity: decimal.NewFromInt(1), Total: decimal.NewFromFloat(5)}},
		Shipping:   &shipping,
		Tax:        &tax,
		Subtotal:   decimal.NewFromFloat(80),
		GrandTotal: decimal.NewFromFloat(116),
		PayURL:     "https://tienda.example.com/pagar/inv-1?key=fm_abc",
		Notes:      "Entregar en portería",
	}
}

func TestTextBackend_SiempreDisponible(t *testing.T) {
	b := render.NewTextBackend()
	assert.True(t, b.Available())
	assert.Equal(t, entity.DocumentTypeText, b.Kind())
	assert.Equal(t, "txt", b.Ext())
}

func TestTextBackend_ContenidoCompleto(t *testing.T) {
	b := render.NewTextBackend()
	out, err := b.Render(sampleDocument())
	require.NoError(t, err)
	text := string(out)

	// Cabecera
	assert.Contains(t, text, "Tienda Test")
	assert.Contains(t, text, "FACTURA INV-1024")
	assert.Contains(t, text, "30/08/2026")
	assert.Contains(t, text, "Vence:  30/09/2026")
	assert.Contains(t, text, "Pendiente de pago")

	// Cliente y líneas
	assert.Contains(t, text, "Ana Gómez")
	assert.Contains(t, text, "Café de origen 500g")
	assert.Contains(t, text, "Instalación - A domicilio")
	assert.Contains(t, text, "Urgencia")
	assert.Contains(t, text, "Mensajería")
	assert.Contains(t, text, "IVA")

	// Totales y pago
	assert.Contains(t, text, "TOTAL A PAGAR:")
	assert.Contains(t, text, "https://tienda.example.com/pagar/inv-1?key=fm_abc")
	assert.Contains(t, text, "Entregar en portería")
	assert.Contains(t, text, "© 2026 Tienda Test")
}

// Documento mínimo (como el de sondeo de capacidad): no debe fallar.
func TestTextBackend_DocumentoMinimo(t *testing.T) {
	b := render.NewTextBackend()
	out, err := b.Render(&billing.InvoiceDocument{
		Number:   "PROBE-0",
		IssuedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "PROBE-0")
}

func TestTextBackend_LineasEnOrden(t *testing.T) {
	b := render.NewTextBackend()
	out, err := b.Render(sampleDocument())
	require.NoError(t, err)
	text := string(out)

	iProduct := strings.Index(text, "Café de origen 500g")
	iCustom := strings.Index(text, "Instalación")
	iFee := strings.Index(text, "Urgencia")
	iShipping := strings.Index(text, "Mensajería")
	require.True(t, iProduct >= 0 && iCustom >= 0 && iFee >= 0 && iShipping >= 0)
	assert.Less(t, iProduct, iCustom)
	assert.Less(t, iCustom, iFee)
	assert.Less(t, iFee, iShipping)
}
