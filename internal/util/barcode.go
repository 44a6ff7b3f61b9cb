package util

import "fmt"

const BarcodePrefix = "TECH-"

// BarcodeFor derives the scannable barcode value for a technician number.
func BarcodeFor(techID int) string {
	return fmt.Sprintf("%s%04d", BarcodePrefix, techID)
}
