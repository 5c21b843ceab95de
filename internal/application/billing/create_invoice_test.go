package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/application/dto"
	"github.com/tu-usuario/factura-manual/internal/domain"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// InvoiceUseCase: construcción atómica de facturas manuales.
// ──────────────────────────────────────────────────────────────────────────────

const testPayBase = "https://tienda.example.com/pagar"

type builderEnv struct {
	uc       *billing.InvoiceUseCase
	invoices *fakeInvoiceRepo
	settings *billing.SettingsUseCase
}

func newBuilderEnv(t *testing.T, stored map[string]string) *builderEnv {
	t.Helper()
	invoices := newFakeInvoiceRepo()
	customers := newFakeCustomerRepo(&entity.Customer{
		ID:      "cust-1",
		Name:    "Ana Gómez",
		Email:   "ana@example.com",
		Phone:   "3001234567",
		City:    "Bogotá",
		Country: "CO",
	})
	products := newFakeProductRepo(&entity.Product{
		ID:    "prod-1",
		SKU:   "CAFE-500",
		Name:  "Café de origen 500g",
		Price: decimal.NewFromFloat(25),
	})
	settings := billing.NewSettingsUseCase(newFakeSettingsRepo(stored), billing.PlatformDefaults{
		StoreName:  "Tienda Test",
		AdminEmail: "admin@example.com",
	})
	uc := billing.NewInvoiceUseCase(
		&fakeTxRunner{repo: invoices}, invoices, customers, products,
		settings, testPayBase, logger.Nop(),
	)
	return &builderEnv{uc: uc, invoices: invoices, settings: settings}
}

func fullRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID: "cust-1",
		Items: []dto.ProductRowInput{
			{ProductID: "prod-1", Quantity: decimal.NewFromInt(2), Total: decimal.NewFromFloat(50)},
		},
		CustomItems: []dto.CustomRowInput{
			{Name: "Instalación", Description: "A domicilio", Total: decimal.NewFromFloat(30)},
		},
		Fees:     []dto.FeeInput{{Name: "Urgencia", Amount: amount(5)}},
		Shipping: &dto.ShippingInput{MethodTitle: "Mensajería", MethodID: "courier", Total: amount(12)},
		Tax:      &dto.TaxInput{Name: "IVA", Total: amount(19)},
		Notes:    "Entregar en portería",
		Terms:    "Pago a 15 días",
	}
}

func TestCreate_FacturaCompleta(t *testing.T) {
	env := newBuilderEnv(t, nil)

	resp, err := env.uc.Create(context.Background(), fullRequest())
	require.NoError(t, err)

	// Identidad y estado inicial
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, entity.StatusPending, resp.Status)
	assert.Equal(t, 1, resp.Revision)
	assert.True(t, len(resp.Number) > len("INV-"), "número con prefijo resuelto")
	assert.Contains(t, resp.Number, "INV-")

	// Snapshot del cliente registrado
	assert.Equal(t, "cust-1", resp.CustomerID)
	assert.Equal(t, "Ana Gómez", resp.BillingName)
	assert.Equal(t, "ana@example.com", resp.BillingEmail)

	// Totales: subtotal 80 + fee 5 + envío 12 + impuesto 19 = 116
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(80)), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.FeeTotal.Equal(decimal.NewFromFloat(5)))
	assert.True(t, resp.ShippingTotal.Equal(decimal.NewFromFloat(12)))
	assert.True(t, resp.TaxTotal.Equal(decimal.NewFromFloat(19)))
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromFloat(116)), "grand total: %s", resp.GrandTotal)

	// Líneas en orden de captura: producto, personalizada, fee, envío, impuesto
	require.Len(t, resp.Items, 5)
	assert.Equal(t, entity.ItemKindProduct, resp.Items[0].Kind)
	assert.Equal(t, "Café de origen 500g", resp.Items[0].Name, "el nombre sale del catálogo")
	assert.Equal(t, entity.ItemKindCustom, resp.Items[1].Kind)
	assert.Equal(t, entity.ItemKindFee, resp.Items[2].Kind)
	assert.Equal(t, entity.ItemKindShipping, resp.Items[3].Kind)
	assert.Equal(t, "courier", resp.Items[3].MethodID)
	assert.Equal(t, entity.ItemKindTax, resp.Items[4].Kind)

	// Enlace de pago con la clave de propiedad
	persisted, _ := env.invoices.GetByID(resp.ID)
	require.NotNil(t, persisted)
	assert.Contains(t, resp.PayURL, testPayBase+"/"+resp.ID)
	assert.Contains(t, resp.PayURL, "key="+persisted.OrderKey)
}

// El precio capturado por staff manda: aunque el catálogo diga otra cosa, el
// total de línea es el de la solicitud.
func TestCreate_PrecioDeSolicitudEsAutoritativo(t *testing.T) {
	env := newBuilderEnv(t, nil)
	in := fullRequest()
	in.Items[0].Total = decimal.NewFromFloat(1) // catálogo dice 25

	resp, err := env.uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, resp.Items[0].Total.Equal(decimal.NewFromFloat(1)))
}

func TestCreate_InvitadoConDefaults(t *testing.T) {
	env := newBuilderEnv(t, nil)
	in := dto.CreateInvoiceRequest{
		CustomerEmail: "guest@example.com",
		Items: []dto.ProductRowInput{
			{ProductID: "prod-1", Total: decimal.NewFromFloat(25)},
		},
	}

	resp, err := env.uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, resp.CustomerID, "invitado: sin registro de cliente")
	assert.Equal(t, "guest@example.com", resp.BillingEmail)
	assert.Equal(t, "guest@example.com", resp.BillingName, "sin nombre usa el email")
	assert.Equal(t, "US", resp.BillingCountry, "país por defecto")
}

func TestCreate_ClienteInexistente(t *testing.T) {
	env := newBuilderEnv(t, nil)
	in := fullRequest()
	in.CustomerID = "cust-404"

	_, err := env.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ProductoInexistente(t *testing.T) {
	env := newBuilderEnv(t, nil)
	in := fullRequest()
	in.Items[0].ProductID = "prod-404"

	_, err := env.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Fallo de persistencia: nada queda a medias (el borrador vive en memoria
// hasta la transacción).
func TestCreate_FalloDePersistenciaNoDejaRestos(t *testing.T) {
	env := newBuilderEnv(t, nil)
	env.invoices.failCreate = true

	_, err := env.uc.Create(context.Background(), fullRequest())
	require.Error(t, err)

	list, _ := env.invoices.List("", 100, 0)
	assert.Empty(t, list, "un fallo de persistencia no debe dejar facturas")
}

func TestCreate_PlazoPorDefecto(t *testing.T) {
	env := newBuilderEnv(t, map[string]string{"due_days": "10"})

	resp, err := env.uc.Create(context.Background(), fullRequest())
	require.NoError(t, err)

	persisted, _ := env.invoices.GetByID(resp.ID)
	require.NotNil(t, persisted.DueDate)
	expected := time.Now().AddDate(0, 0, 10)
	assert.WithinDuration(t, expected, *persisted.DueDate, time.Minute)
}

// ── Clone ─────────────────────────────────────────────────────────────────────

func TestClone_CopiaContenidoConNuevaIdentidad(t *testing.T) {
	env := newBuilderEnv(t, nil)
	orig, err := env.uc.Create(context.Background(), fullRequest())
	require.NoError(t, err)

	copy1, err := env.uc.Clone(context.Background(), orig.ID)
	require.NoError(t, err)

	// Identidad nueva
	assert.NotEqual(t, orig.ID, copy1.ID)
	assert.NotEqual(t, orig.Number, copy1.Number)
	assert.Equal(t, entity.StatusPending, copy1.Status)

	origInv, _ := env.invoices.GetByID(orig.ID)
	copyInv, _ := env.invoices.GetByID(copy1.ID)
	assert.NotEqual(t, origInv.OrderKey, copyInv.OrderKey, "clave de pago nueva")

	// Mismo contenido, elemento a elemento
	assert.Equal(t, orig.BillingName, copy1.BillingName)
	assert.Equal(t, orig.Notes, copy1.Notes)
	assert.Equal(t, orig.Terms, copy1.Terms)
	assert.True(t, orig.GrandTotal.Equal(copy1.GrandTotal))
	require.Len(t, copy1.Items, len(orig.Items))
	for i := range orig.Items {
		assert.Equal(t, orig.Items[i].Kind, copy1.Items[i].Kind, "línea %d", i)
		assert.Equal(t, orig.Items[i].Name, copy1.Items[i].Name, "línea %d", i)
		assert.True(t, orig.Items[i].Total.Equal(copy1.Items[i].Total), "línea %d", i)
	}
}

func TestClone_FacturaInexistente(t *testing.T) {
	env := newBuilderEnv(t, nil)
	_, err := env.uc.Clone(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrInvalidInvoice)
}

func TestClone_FacturaNoManual(t *testing.T) {
	env := newBuilderEnv(t, nil)
	require.NoError(t, env.invoices.Create(&entity.Invoice{
		ID:     "ext-1",
		Status: entity.StatusPending,
		Manual: false,
	}, nil))

	_, err := env.uc.Clone(context.Background(), "ext-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInvoice)
}
