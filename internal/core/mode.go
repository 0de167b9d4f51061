package core

type Mode int

const (
	ModeDev Mode = iota
	ModeProd
	ModeExport
)

func (m Mode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeExport:
		return "export"
	default:
		return "prod"
	}
}
