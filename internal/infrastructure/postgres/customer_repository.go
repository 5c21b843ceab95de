package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/factura-manual/internal/domain"
	"github.com/tu-usuario/factura-manual/internal/domain/entity"
	"github.com/tu-usuario/factura-manual/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository.
type CustomerRepo struct {
	q Querier
}

func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `
	id, name, email, COALESCE(phone, ''), COALESCE(address, ''),
	COALESCE(city, ''), COALESCE(state, ''), COALESCE(postal, ''),
	COALESCE(country, ''), created_at, updated_at`

func (r *CustomerRepo) Create(customer *entity.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO customers (id, name, email, phone, address, city, state, postal, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.Email,
		nullIfEmpty(customer.Phone), nullIfEmpty(customer.Address),
		nullIfEmpty(customer.City), nullIfEmpty(customer.State),
		nullIfEmpty(customer.Postal), nullIfEmpty(customer.Country),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepo) GetByEmail(email string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = lower($1)`
	c, err := scanCustomer(r.q.QueryRow(context.Background(), query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by email: %w", err)
	}
	return c, nil
}

// Search busca por nombre o email (para el autocompletado del formulario).
func (r *CustomerRepo) Search(term string, limit int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + `
		FROM customers
		WHERE name ILIKE $1 OR email ILIKE $1
		ORDER BY name LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	defer rows.Close()
	return collectCustomers(rows)
}

func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	return collectCustomers(rows)
}

func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, address = $5, city = $6,
		    state = $7, postal = $8, country = $9, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.Email,
		nullIfEmpty(customer.Phone), nullIfEmpty(customer.Address),
		nullIfEmpty(customer.City), nullIfEmpty(customer.State),
		nullIfEmpty(customer.Postal), nullIfEmpty(customer.Country),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.City, &c.State, &c.Postal, &c.Country, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCustomers(rows pgx.Rows) ([]*entity.Customer, error) {
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
