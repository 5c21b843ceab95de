package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/domain"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// SendUseCase: despacho del email de cobro con enlace de pago y adjunto
// opcional según configuración.
// ──────────────────────────────────────────────────────────────────────────────

type sendEnv struct {
	*builderEnv
	sender *billing.SendUseCase
	mailer *fakeMailer
}

func newSendEnv(t *testing.T, stored map[string]string, mailer *fakeMailer) *sendEnv {
	t.Helper()
	base := newBuilderEnv(t, stored)
	docs := billing.NewDocumentUseCase(
		base.invoices, base.settings,
		[]billing.DocumentBackend{textBackend()},
		t.TempDir(), testPayBase, logger.Nop(),
	)
	var m billing.Mailer
	if mailer != nil {
		m = mailer
	}
	sender := billing.NewSendUseCase(
		base.invoices, docs, base.settings, fakeHTMLRenderer{}, m, logger.Nop(),
	)
	return &sendEnv{builderEnv: base, sender: sender, mailer: mailer}
}

func TestSend_EmailConEnlaceYAdjunto(t *testing.T) {
	mailer := &fakeMailer{available: true}
	// attach_pdf por defecto está activo
	env := newSendEnv(t, nil, mailer)
	resp, err := env.uc.Create(context.Background(), fullRequest())
	require.NoError(t, err)

	require.NoError(t, env.sender.Send(context.Background(), resp.ID))

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, "Ana Gómez", msg.ToName)
	assert.Contains(t, msg.Subject, resp.Number)
	assert.Contains(t, msg.Subject, "Tienda Test")
	assert.Contains(t, msg.HTML, resp.Number)
	require.NotNil(t, msg.Attachment, "attach_pdf activo debe adjuntar el documento")
	assert.Equal(t, "text/plain", msg.Attachment.MIME)
	assert.NotEmpty(t, msg.Attachment.Data)

	// Con éxito se estampa last_sent_at
	inv, _ := env.invoices.GetByID(resp.ID)
	assert.NotNil(t, inv.LastSentAt)
}

func TestSend_SinAdjuntoSiConfigLoDesactiva(t *testing.T) {
	mailer := &fakeMailer{available: true}
	env := newSendEnv(t, map[string]string{entity.SettingAttachPDF: "0"}, mailer)
	resp, err := env.uc.Create(context.Background(), fullRequest())
	require.NoError(t, err)

	require.NoError(t, env.sender.Send(context.Background(), resp.ID))
	require.Len(t, mailer.sent, 1)
	assert.Nil(t, mailer.sent[0].Attachment)
}

func TestSend_SinTransporte(t *testing.T) {
	env := newSendEnv(t, nil, nil) // mailer nil: sin transporte registrado
	resp, err := env.uc.Create(context.Background(), fullRequest())
	require.NoError(t, err)

	err = env.sender.Send(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrEmailUnavailable)
}

func TestSend_TransporteNoDisponible(t *testing.T) {
	env := newSendEnv(t, nil, &fakeMailer{available: false})
	resp, err := env.uc.Create(context.Background(), fullRequest())
	require.NoError(t, err)

	err = env.sender.Send(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrEmailUnavailable)
}

func TestSend_FacturaInexistente(t *testing.T) {
	env := newSendEnv(t, nil, &fakeMailer{available: true})
	err := env.sender.Send(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrInvalidInvoice)
}

func TestSend_SinEmailDeCliente(t *testing.T) {
	mailer := &fakeMailer{available: true}
	env := newSendEnv(t, nil, mailer)
	require.NoError(t, env.invoices.Create(&entity.Invoice{
		ID:     "inv-sin-email",
		Status: entity.StatusPending,
		Manual: true,
	}, nil))

	err := env.sender.Send(context.Background(), "inv-sin-email")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, mailer.sent)
}

// Un fallo del transporte no estampa last_sent_at.
func TestSend_FalloDeEnvioNoEstampa(t *testing.T) {
	mailer := &fakeMailer{available: true, sendErr: assert.AnError}
	env := newSendEnv(t, nil, mailer)
	resp, err := env.uc.Create(context.Background(), fullRequest())
	require.NoError(t, err)

	err = env.sender.Send(context.Background(), resp.ID)
	require.Error(t, err)

	inv, _ := env.invoices.GetByID(resp.ID)
	assert.Nil(t, inv.LastSentAt)
}
