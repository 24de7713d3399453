package entity

import "time"

// Company representa una empresa (tenant). Todas las entidades de negocio
// pertenecen a una Company; el núcleo solo la usa para validar pertenencia.
type Company struct {
	ID        string
	Name      string
	TaxID     string // NIT u otro identificador tributario
	CreatedAt time.Time
	UpdatedAt time.Time
}
