package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// ProductRepository persiste productos del catálogo. Para el núcleo de
// kardex lo relevante es TracksInventory y la pertenencia a la empresa.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	ListByCompany(companyID string) ([]*entity.Product, error)
}

// BranchRepository persiste sucursales.
type BranchRepository interface {
	Create(b *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	ListByCompany(companyID string) ([]*entity.Branch, error)
}

// CompanyRepository persiste empresas (tenants).
type CompanyRepository interface {
	Create(c *entity.Company) error
	GetByID(id string) (*entity.Company, error)
}

// UserRepository persiste usuarios.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
