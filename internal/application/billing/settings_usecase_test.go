package billing_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/factura-manual/internal/application/billing"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// SettingsUseCase: valor guardado si no está vacío, si no el derivado de
// plataforma.
// ──────────────────────────────────────────────────────────────────────────────

func newSettings(stored map[string]string) *billing.SettingsUseCase {
	return billing.NewSettingsUseCase(newFakeSettingsRepo(stored), billing.PlatformDefaults{
		StoreName:    "Tienda Test",
		StoreAddress: "Calle 1 # 2-3",
		StorePhone:   "601",
		AdminEmail:   "admin@example.com",
	})
}

func TestResolve_GuardadoPrevaleceSobreDefault(t *testing.T) {
	uc := newSettings(map[string]string{entity.SettingCompanyName: "Mi Empresa SAS"})
	assert.Equal(t, "Mi Empresa SAS", uc.Resolve(entity.SettingCompanyName))
}

func TestResolve_VacioCaeAlDefault(t *testing.T) {
	uc := newSettings(map[string]string{entity.SettingCompanyName: "   "})
	assert.Equal(t, "Tienda Test", uc.Resolve(entity.SettingCompanyName))
}

func TestResolve_DefaultsDePlataforma(t *testing.T) {
	uc := newSettings(nil)
	assert.Equal(t, "Tienda Test", uc.Resolve(entity.SettingCompanyName))
	assert.Equal(t, "Calle 1 # 2-3", uc.Resolve(entity.SettingCompanyAddress))
	assert.Equal(t, "admin@example.com", uc.Resolve(entity.SettingCompanyEmail))
	assert.Equal(t, "INV-", uc.Resolve(entity.SettingInvoicePrefix))
	assert.Equal(t, "15", uc.Resolve(entity.SettingDueDays))
}

// El pie por defecto lleva el año en curso y el nombre de empresa resuelto
// (que a su vez puede venir guardado).
func TestResolve_FooterDerivado(t *testing.T) {
	uc := newSettings(map[string]string{entity.SettingCompanyName: "Mi Empresa SAS"})
	expected := fmt.Sprintf("© %d Mi Empresa SAS", time.Now().Year())
	assert.Equal(t, expected, uc.Resolve(entity.SettingFooterText))
}

func TestResolve_ClaveDesconocida(t *testing.T) {
	uc := newSettings(nil)
	assert.Empty(t, uc.Resolve("clave_inexistente"))
}

func TestResolveAll_NumericosParseados(t *testing.T) {
	uc := newSettings(map[string]string{
		entity.SettingDueDays:  "30",
		entity.SettingAutoSend: "1",
	})
	all := uc.ResolveAll()
	assert.Equal(t, 30, all.DueDays)
	assert.True(t, all.AutoSend)
	assert.True(t, all.AttachPDF, "attach_pdf activo por defecto")
	assert.Equal(t, 7, all.ReminderDays)
}

func TestUpdate_MergeSobreLoExistente(t *testing.T) {
	repo := newFakeSettingsRepo(map[string]string{entity.SettingCompanyName: "Original"})
	uc := billing.NewSettingsUseCase(repo, billing.PlatformDefaults{})

	err := uc.Update(map[string]string{entity.SettingDueDays: "45"})
	assert.NoError(t, err)
	assert.Equal(t, "Original", uc.Resolve(entity.SettingCompanyName), "clave no tocada se conserva")
	assert.Equal(t, "45", uc.Resolve(entity.SettingDueDays))
}

func TestCompanyBlock_Completo(t *testing.T) {
	uc := newSettings(nil)
	block := uc.CompanyBlock()
	assert.Equal(t, "Tienda Test", block.Name)
	assert.Equal(t, "Calle 1 # 2-3", block.Address)
	assert.Equal(t, "admin@example.com", block.Email)
	assert.NotEmpty(t, block.Footer)
}
