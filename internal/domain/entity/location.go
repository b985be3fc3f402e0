package entity

import "strings"

// DefaultLocations ubicaciones físicas de la operación.
var DefaultLocations = []string{"Deposito", "Local"}

// LocationSet conjunto fijo y ordenado de ubicaciones válidas.
type LocationSet struct {
	names []string
	index map[string]struct{}
}

// NewLocationSet construye el conjunto descartando vacíos y duplicados; si no queda ninguna usa DefaultLocations.
func NewLocationSet(names []string) LocationSet {
	s := LocationSet{index: make(map[string]struct{})}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := s.index[n]; ok {
			continue
		}
		s.index[n] = struct{}{}
		s.names = append(s.names, n)
	}
	if len(s.names) == 0 {
		return NewLocationSet(DefaultLocations)
	}
	return s
}

// Contains indica si la ubicación pertenece al conjunto.
func (s LocationSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names devuelve una copia de las ubicaciones en orden de configuración.
func (s LocationSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
