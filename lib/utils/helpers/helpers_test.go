package helpers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpers(t *testing.T) {
	t.Run(`generate code`, func(t *testing.T) {
		code := GenerateCode(24)
		require.Len(t, code, 24)
		require.Regexp(t, `^[A-Z0-9]+$`, code)
	})
	t.Run(`like pattern`, func(t *testing.T) {
		require.Equal(t, "%nurse%", LikePattern("  Nurse "))
		require.Equal(t, "", LikePattern("   "))
	})
	t.Run(`like pattern escapes wildcards`, func(t *testing.T) {
		cases := []struct {
			in, out string
		}{
			{"100%", `%100\%%`},
			{"front_desk", `%front\_desk%`},
			{`C:\Temp`, `%c:\\temp%`},
		}
		for _, tc := range cases {
			t.Run(tc.in, func(t *testing.T) {
				require.Equal(t, tc.out, LikePattern(tc.in))
			})
		}
	})
	t.Run(`context done`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		require.False(t, IsContextDone(ctx))
		cancel()
		require.True(t, IsContextDone(ctx))
	})
}
