package envsubst

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	t.Setenv("HOST", "example.test")
	t.Setenv("EMPTY_ALLOWED", "")

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "https://${HOST}/health", "https://example.test/health"},
		{"multiple", "${HOST}:${HOST}", "example.test:example.test"},
		{"undefined expands empty", "${UNDEFINED_VAR_XYZ}", ""},
		{"bare dollar passthrough", "$HOST", "$HOST"},
		{"empty braces passthrough", "${}", "${}"},
		{"lowercase passthrough", "${lower}", "${lower}"},
		{"leading digit passthrough", "${123ABC}", "${123ABC}"},
		{"no placeholder", "plain string", "plain string"},
		{"defined empty value", "[${EMPTY_ALLOWED}]", "[]"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, Expand(c.in, nil))
		})
	}
}
