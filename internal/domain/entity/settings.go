package entity

// Claves de configuración de facturación (tabla settings, clave/valor plano).
// Los valores guardados se mezclan sobre los defaults de plataforma: un valor
// vacío o ausente cae al fallback que resuelve el SettingsUseCase.
const (
	SettingCompanyName    = "company_name"
	SettingCompanyAddress = "company_address"
	SettingCompanyPhone   = "company_phone"
	SettingCompanyEmail   = "company_email"
	SettingFooterText     = "footer_text"

	SettingInvoicePrefix = "invoice_prefix" // prefijo del consecutivo, ej. "INV-"
	SettingDueDays       = "due_days"       // días de plazo por defecto
	SettingAttachPDF     = "attach_pdf"     // "1" = adjuntar documento al email
	SettingAutoSend      = "auto_send"      // "1" = enviar email al crear la factura

	// Política de recordatorios y mora: se guarda y se expone, pero ningún
	// proceso de fondo actúa sobre ella (modelo síncrono por petición).
	SettingReminderDays   = "reminder_days"
	SettingLateFeePercent = "late_fee_percent"
)
