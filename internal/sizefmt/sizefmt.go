// Package sizefmt renders byte counts the way the report commands print
// them: a SI-binary (KiB/MiB/...) value with two decimal digits. It is
// one of the "external collaborators" spec §1 calls out as out of
// scope for the engine proper — kept tiny and dependency-free since
// nothing in the retrieved corpus reaches for a library just for this.
package sizefmt

import "fmt"

var units = [...]string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// Bytes renders n with two decimal digits and the largest unit that
// keeps the mantissa >= 1, e.g. Bytes(512) == "512.00 B",
// Bytes(1536) == "1.50 KiB".
func Bytes(n uint64) string {
	z := float64(n)
	order := 0
	for z >= 1024 && order < len(units)-1 {
		order++
		z /= 1024
	}
	return fmt.Sprintf("%.2f %s", z, units[order])
}
