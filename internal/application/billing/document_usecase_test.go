package billing_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/domain"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// DocumentUseCase: generación con cadena de backends, caché en disco por
// factura y limpieza de metadatos.
// ──────────────────────────────────────────────────────────────────────────────

type docEnv struct {
	*builderEnv
	docs *billing.DocumentUseCase
	dir  string
}

func newDocEnv(t *testing.T, backends ...billing.DocumentBackend) *docEnv {
	t.Helper()
	base := newBuilderEnv(t, nil)
	dir := t.TempDir()
	docs := billing.NewDocumentUseCase(
		base.invoices, base.settings, backends, dir, testPayBase, logger.Nop(),
	)
	return &docEnv{builderEnv: base, docs: docs, dir: dir}
}

func textBackend() *fakeBackend {
	return &fakeBackend{name: "text", kind: entity.DocumentTypeText, ext: "txt", available: true}
}

func (e *docEnv) createInvoice(t *testing.T) string {
	t.Helper()
	resp, err := e.uc.Create(context.Background(), fullRequest())
	require.NoError(t, err)
	return resp.ID
}

func TestRender_GeneraYEstampaMetadatos(t *testing.T) {
	backend := textBackend()
	env := newDocEnv(t, backend)
	id := env.createInvoice(t)

	inv, err := env.docs.Render(context.Background(), id, false)
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentTypeText, inv.DocumentType)
	assert.NotNil(t, inv.DocumentGeneratedAt)
	assert.FileExists(t, inv.DocumentPath)
	assert.Contains(t, inv.DocumentPath, "invoice_"+id+".txt")

	// Los metadatos quedan persistidos en la factura
	persisted, _ := env.invoices.GetByID(id)
	assert.Equal(t, inv.DocumentPath, persisted.DocumentPath)
}

// Sin force, un documento existente se sirve de caché: el backend no vuelve a
// renderizar.
func TestRender_CacheSinForce(t *testing.T) {
	backend := textBackend()
	env := newDocEnv(t, backend)
	id := env.createInvoice(t)

	_, err := env.docs.Render(context.Background(), id, false)
	require.NoError(t, err)
	require.Equal(t, 1, backend.renders)

	_, err = env.docs.Render(context.Background(), id, false)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.renders, "la segunda llamada debe servir de caché")
}

func TestRender_ForceRegenera(t *testing.T) {
	backend := textBackend()
	env := newDocEnv(t, backend)
	id := env.createInvoice(t)

	_, err := env.docs.Render(context.Background(), id, false)
	require.NoError(t, err)
	_, err = env.docs.Render(context.Background(), id, true)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.renders)
}

// Archivo cacheado borrado del disco: el siguiente render regenera en vez de
// servir la ruta huérfana.
func TestRender_ArchivoBorradoRegenera(t *testing.T) {
	backend := textBackend()
	env := newDocEnv(t, backend)
	id := env.createInvoice(t)

	inv, err := env.docs.Render(context.Background(), id, false)
	require.NoError(t, err)
	require.NoError(t, os.Remove(inv.DocumentPath))

	_, err = env.docs.Render(context.Background(), id, false)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.renders)
}

// Cadena de prioridad: el primer backend disponible gana; uno no disponible o
// que falla cede el turno al siguiente.
func TestRender_CadenaDeFallback(t *testing.T) {
	unavailable := &fakeBackend{name: "pdf-a", kind: entity.DocumentTypePDF, ext: "pdf", available: false}
	failing := &fakeBackend{
		name: "pdf-b", kind: entity.DocumentTypePDF, ext: "pdf", available: true,
		renderErr: errors.New("sin fuentes"),
	}
	text := textBackend()
	env := newDocEnv(t, unavailable, failing, text)
	id := env.createInvoice(t)

	inv, err := env.docs.Render(context.Background(), id, false)
	require.NoError(t, err)

	assert.Equal(t, 0, unavailable.renders)
	assert.Equal(t, 1, failing.renders)
	assert.Equal(t, 1, text.renders)
	assert.Equal(t, entity.DocumentTypeText, inv.DocumentType, "el texto cierra la cadena")
}

func TestRender_TodosFallan(t *testing.T) {
	failing := &fakeBackend{
		name: "pdf", kind: entity.DocumentTypePDF, ext: "pdf", available: true,
		renderErr: errors.New("sin fuentes"),
	}
	env := newDocEnv(t, failing)
	id := env.createInvoice(t)

	_, err := env.docs.Render(context.Background(), id, false)
	assert.ErrorIs(t, err, domain.ErrDocumentGeneration)
}

func TestRender_FacturaInexistente(t *testing.T) {
	env := newDocEnv(t, textBackend())
	_, err := env.docs.Render(context.Background(), "no-existe", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInvoice)
}

// ── Delete ────────────────────────────────────────────────────────────────────

func TestDeleteDocument_LimpiaArchivoYMetadatos(t *testing.T) {
	backend := textBackend()
	env := newDocEnv(t, backend)
	id := env.createInvoice(t)

	inv, err := env.docs.Render(context.Background(), id, false)
	require.NoError(t, err)
	path := inv.DocumentPath

	assert.True(t, env.docs.Delete(context.Background(), id))
	assert.NoFileExists(t, path)

	persisted, _ := env.invoices.GetByID(id)
	assert.Empty(t, persisted.DocumentPath)
	assert.Empty(t, persisted.DocumentType)
	assert.Nil(t, persisted.DocumentGeneratedAt)

	// Un render posterior regenera desde cero
	_, err = env.docs.Render(context.Background(), id, false)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.renders)
}

// ── PayLink ───────────────────────────────────────────────────────────────────

func TestPayLink_Formato(t *testing.T) {
	inv := &entity.Invoice{ID: "inv-1", OrderKey: "fm_abc"}
	assert.Equal(t, "https://x.test/pagar/inv-1?key=fm_abc",
		billing.PayLink("https://x.test/pagar", inv))
	assert.Empty(t, billing.PayLink("", inv), "base vacía no produce enlace")
}
