package entity

import "time"

// Product representa un producto del maestro de artículos. El núcleo lo
// resuelve por código o código de barras; el CRUD vive en el sistema maestro.
type Product struct {
	ID          string
	Code        string
	Barcode     string
	Description string
	Unit        string
	CreatedAt   time.Time
}
