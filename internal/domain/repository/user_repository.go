package repository

import "github.com/tu-usuario/factura-manual/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios staff.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
