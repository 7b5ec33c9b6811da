package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	got := All()
	require.Len(t, got, 5)

	names := make([]string, 0, len(got))
	for _, tpl := range got {
		names = append(names, tpl.Name)
		assert.NotEmpty(t, tpl.Content)
	}
	assert.Equal(t, []string{"Affidavit", "Summons", "Legal Contract", "Witness Statement", "Power of Attorney"}, names)

	got[0].Name = "changed"
	assert.Equal(t, "Affidavit", All()[0].Name)
}

func TestFind(t *testing.T) {
	tpl, err := Find("Legal Contract")
	require.NoError(t, err)
	assert.Equal(t, "contract", tpl.ID)

	tpl, err = Find("power_of_attorney")
	require.NoError(t, err)
	assert.Equal(t, "Power of Attorney", tpl.Name)

	_, err = Find("Will")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{
			name:    "script removed",
			in:      `<p class="text-gray-700">Hello</p><script>alert(1)</script>`,
			want:    []string{`<p class="text-gray-700">Hello</p>`},
			notWant: []string{"<script", "alert"},
		},
		{
			name:    "event handler removed",
			in:      `<span onclick="steal()" class="text-blue-600">[Name]</span>`,
			want:    []string{`class="text-blue-600"`, "[Name]"},
			notWant: []string{"onclick"},
		},
		{
			name:    "javascript link removed",
			in:      `<a href="javascript:alert(1)">x</a>`,
			notWant: []string{"javascript:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Sanitize(tt.in)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out, w)
			}
		})
	}
}

func TestSanitize_KeepsTemplates(t *testing.T) {
	for _, tpl := range All() {
		out := Sanitize(tpl.Content)
		assert.Contains(t, out, "<h2")
		assert.Contains(t, out, `class="text-gray-700`)
	}
}
