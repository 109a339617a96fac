package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	utc, err := time.LoadLocation("UTC")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		in     time.Time
		expect string
	}{
		{
			in:     time.Date(2023, time.November, 16, 12, 0, 0, 0, Location),
			expect: "2023-11-16",
		},
		{
			// 23:30 UTC is already the next day in Brussels
			in:     time.Date(2023, time.November, 16, 23, 30, 0, 0, utc),
			expect: "2023-11-17",
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, FormatDate(test.in))
	}
}
