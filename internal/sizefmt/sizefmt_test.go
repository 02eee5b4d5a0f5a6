package sizefmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	cases := map[uint64]string{
		0:          "0.00 B",
		512:        "512.00 B",
		1024:       "1.00 KiB",
		1536:       "1.50 KiB",
		1024 * 1024: "1.00 MiB",
	}
	for n, want := range cases {
		require.Equal(t, want, Bytes(n))
	}
}
