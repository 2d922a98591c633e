package hardware

type Ejecter interface {
	Eject() error
}

// Eject unloads the cartridge from the drive.
func Eject(dev Ejecter) error {
	return dev.Eject()
}
