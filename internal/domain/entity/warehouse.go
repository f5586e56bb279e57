package entity

import "time"

// Warehouse representa una bodega. El núcleo solo la consulta por código;
// el CRUD completo vive en el sistema maestro.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	CreatedAt time.Time
}
