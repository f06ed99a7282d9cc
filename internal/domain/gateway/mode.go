package gateway

// Mode selects which credential set and provider hosts are in use.
type Mode string

const (
	ModeTest       Mode = "test"
	ModeProduction Mode = "production"
)

func (m Mode) IsValid() bool {
	return m == ModeTest || m == ModeProduction
}

func (m Mode) String() string {
	return string(m)
}

// ModeFromTestFlag maps the store's "test mode" checkbox to a Mode.
func ModeFromTestFlag(testMode bool) Mode {
	if testMode {
		return ModeTest
	}
	return ModeProduction
}
