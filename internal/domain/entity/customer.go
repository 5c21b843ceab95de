package entity

import "time"

// Customer representa un cliente registrado. Las facturas para invitados no
// crean registro: sus datos viven solo en el snapshot de la factura.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	Postal    string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
