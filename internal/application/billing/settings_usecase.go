package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tu-usuario/factura-manual/internal/application/dto"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/internal/domain/repository"
	"github.com/tu-usuario/factura-manual/pkg/config"
)

// PlatformDefaults valores de plataforma usados como fallback cuando la
// configuración guardada está vacía (equivalente al perfil del sitio).
type PlatformDefaults struct {
	StoreName    string
	StoreAddress string
	StorePhone   string
	AdminEmail   string
}

// DefaultsFromConfig arma los fallbacks de plataforma desde la configuración.
func DefaultsFromConfig(cfg *config.Config) PlatformDefaults {
	name := cfg.Store.Name
	if name == "" {
		name = cfg.App.Name
	}
	return PlatformDefaults{
		StoreName:    name,
		StoreAddress: cfg.Store.Address,
		StorePhone:   cfg.Store.Phone,
		AdminEmail:   cfg.Store.AdminEmail,
	}
}

// SettingsUseCase resuelve la configuración de facturación: valor guardado si
// no está vacío, si no el derivado de plataforma. Sin estado ni efectos:
// cada Resolve lee lo guardado y aplica el fallback.
type SettingsUseCase struct {
	repo     repository.SettingsRepository
	defaults PlatformDefaults
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository, defaults PlatformDefaults) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, defaults: defaults}
}

// Resolve devuelve el valor efectivo de una clave. La ausencia de toda fuente
// produce cadena vacía, nunca error.
func (uc *SettingsUseCase) Resolve(key string) string {
	stored, err := uc.repo.Load()
	if err != nil {
		stored = nil // sin guardado legible: solo fallbacks
	}
	return uc.resolve(stored, key)
}

func (uc *SettingsUseCase) resolve(stored map[string]string, key string) string {
	if v, ok := stored[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	switch key {
	case entity.SettingCompanyName:
		return uc.defaults.StoreName
	case entity.SettingCompanyAddress:
		return uc.defaults.StoreAddress
	case entity.SettingCompanyPhone:
		return uc.defaults.StorePhone
	case entity.SettingCompanyEmail:
		return uc.defaults.AdminEmail
	case entity.SettingFooterText:
		company := uc.resolve(stored, entity.SettingCompanyName)
		return fmt.Sprintf("© %d %s", time.Now().Year(), company)
	case entity.SettingInvoicePrefix:
		return "INV-"
	case entity.SettingDueDays:
		return "15"
	case entity.SettingAttachPDF:
		return "1"
	case entity.SettingAutoSend:
		return "0"
	case entity.SettingReminderDays:
		return "7"
	case entity.SettingLateFeePercent:
		return "0"
	}
	return ""
}

// ResolveAll devuelve toda la configuración efectiva, con numéricos parseados.
func (uc *SettingsUseCase) ResolveAll() dto.SettingsResponse {
	stored, err := uc.repo.Load()
	if err != nil {
		stored = nil
	}
	return dto.SettingsResponse{
		CompanyName:    uc.resolve(stored, entity.SettingCompanyName),
		CompanyAddress: uc.resolve(stored, entity.SettingCompanyAddress),
		CompanyPhone:   uc.resolve(stored, entity.SettingCompanyPhone),
		CompanyEmail:   uc.resolve(stored, entity.SettingCompanyEmail),
		FooterText:     uc.resolve(stored, entity.SettingFooterText),
		InvoicePrefix:  uc.resolve(stored, entity.SettingInvoicePrefix),
		DueDays:        uc.resolveInt(stored, entity.SettingDueDays),
		AttachPDF:      uc.resolve(stored, entity.SettingAttachPDF) == "1",
		AutoSend:       uc.resolve(stored, entity.SettingAutoSend) == "1",
		ReminderDays:   uc.resolveInt(stored, entity.SettingReminderDays),
		LateFeePercent: uc.resolve(stored, entity.SettingLateFeePercent),
	}
}

func (uc *SettingsUseCase) resolveInt(stored map[string]string, key string) int {
	n, _ := strconv.Atoi(uc.resolve(stored, key))
	return n
}

// DueDays plazo de pago por defecto en días.
func (uc *SettingsUseCase) DueDays() int {
	stored, _ := uc.repo.Load()
	return uc.resolveInt(stored, entity.SettingDueDays)
}

// InvoicePrefix prefijo del consecutivo de facturas.
func (uc *SettingsUseCase) InvoicePrefix() string {
	return uc.Resolve(entity.SettingInvoicePrefix)
}

// AttachPDF indica si el email lleva el documento adjunto.
func (uc *SettingsUseCase) AttachPDF() bool {
	return uc.Resolve(entity.SettingAttachPDF) == "1"
}

// AutoSend indica si la factura recién creada se envía por email automáticamente.
func (uc *SettingsUseCase) AutoSend() bool {
	return uc.Resolve(entity.SettingAutoSend) == "1"
}

// CompanyBlock arma el bloque de empresa para los documentos.
func (uc *SettingsUseCase) CompanyBlock() CompanyBlock {
	stored, err := uc.repo.Load()
	if err != nil {
		stored = nil
	}
	return CompanyBlock{
		Name:    uc.resolve(stored, entity.SettingCompanyName),
		Address: uc.resolve(stored, entity.SettingCompanyAddress),
		Phone:   uc.resolve(stored, entity.SettingCompanyPhone),
		Email:   uc.resolve(stored, entity.SettingCompanyEmail),
		Footer:  uc.resolve(stored, entity.SettingFooterText),
	}
}

// Update guarda valores editados por staff (merge sobre lo existente).
func (uc *SettingsUseCase) Update(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	return uc.repo.Save(values)
}
