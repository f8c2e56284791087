package common

type Module string

const (
	ModuleBRC420 Module = "brc420"
)

func (m Module) String() string {
	return string(m)
}
