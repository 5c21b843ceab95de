package repository

import "github.com/tu-usuario/factura-manual/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	Search(term string, limit int) ([]*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
