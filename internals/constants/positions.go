package constants

// Positions is the closed roster of work positions offered on the kiosk.
var Positions = []string{
	"Veliteľ", "CCTV", "Brány", "Sklad2",
	"Turniket2", "Plombovac2", "Sklad3",
	"Turniket3", "Plombovac3",
}
