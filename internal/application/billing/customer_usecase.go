package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/factura-manual/internal/application/dto"
	"github.com/tu-usuario/factura-manual/internal/domain"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes registrados.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
		State:     in.State,
		Postal:    in.Postal,
		Country:   in.Country,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente por ID.
func (uc *CustomerUseCase) GetByID(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// Search busca clientes por nombre o email (autocompletado del formulario).
func (uc *CustomerUseCase) Search(term string, limit int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	list, err := uc.repo.Search(term, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// List lista clientes registrados.
func (uc *CustomerUseCase) List(limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Update actualiza los datos de un cliente. Las facturas emitidas conservan
// su snapshot: el cambio solo afecta facturas futuras.
func (uc *CustomerUseCase) Update(id string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	customer.Name = in.Name
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Address = in.Address
	customer.City = in.City
	customer.State = in.State
	customer.Postal = in.Postal
	customer.Country = in.Country
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		City:    c.City,
		State:   c.State,
		Postal:  c.Postal,
		Country: c.Country,
	}
}
