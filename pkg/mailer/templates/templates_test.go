package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_LoginNotification(t *testing.T) {
	data := ToMap(EmailData{
		Type:    LoginNotification,
		Name:    "Kim",
		Email:   "kim@x.edu",
		AppName: "Do!dream",
		IP:      "10.0.0.1",
	})

	subject, text, html, err := Render(LoginNotification, data)
	require.NoError(t, err)

	assert.Equal(t, "New login to your Do!dream account", subject)
	assert.Contains(t, text, "Hello Kim")
	assert.Contains(t, text, "10.0.0.1")
	assert.Contains(t, text, "Device:     unknown")
	assert.Contains(t, html, "<b>kim@x.edu</b>")
}

func TestRender_EscapesHTML(t *testing.T) {
	data := ToMap(EmailData{Name: "<script>x</script>", Email: "a@b.c"})

	_, _, html, err := Render(LoginNotification, data)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}
