package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUGC(t *testing.T) {
	t.Run("strips script tags", func(t *testing.T) {
		out := UGC(`hello <script>alert(1)</script> world`)
		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "hello")
		assert.Contains(t, out, "world")
	})

	t.Run("keeps basic formatting", func(t *testing.T) {
		out := UGC(`<p>abstract</p><strong>result</strong>`)
		assert.Contains(t, out, "<p>abstract</p>")
		assert.Contains(t, out, "<strong>result</strong>")
	})

	t.Run("plain text untouched", func(t *testing.T) {
		assert.Equal(t, "plain text", UGC("plain text"))
	})
}
