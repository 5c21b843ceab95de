package dto

// SettingsResponse configuración de facturación ya resuelta (guardado sobre
// defaults de plataforma). Los valores numéricos viajan ya parseados.
type SettingsResponse struct {
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyPhone   string `json:"company_phone"`
	CompanyEmail   string `json:"company_email"`
	FooterText     string `json:"footer_text"`

	InvoicePrefix string `json:"invoice_prefix"`
	DueDays       int    `json:"due_days"`
	AttachPDF     bool   `json:"attach_pdf"`
	AutoSend      bool   `json:"auto_send"`

	ReminderDays   int    `json:"reminder_days"`
	LateFeePercent string `json:"late_fee_percent"`
}

// UpdateSettingsRequest valores a guardar; las claves ausentes no se tocan.
type UpdateSettingsRequest struct {
	Values map[string]string `json:"values"`
}
