package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(DefaultBrand)
	require.NoError(t, err)
	return r
}

func TestBusinessNotification(t *testing.T) {
	r := newRenderer(t)

	out, err := r.BusinessNotification(View{
		Name:    "Jane Citizen",
		Email:   "jane@example.com",
		Phone:   "0412 345 678",
		Suburb:  "Parramatta",
		Service: "Hot Water System",
		Message: "No hot water\nsince Monday",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "New Quote Request")
	assert.Contains(t, out, "Jane Citizen")
	assert.Contains(t, out, `href="mailto:jane@example.com"`)
	assert.Contains(t, out, "Parramatta")
	assert.Contains(t, out, "Hot Water System")
	assert.Contains(t, out, "No hot water<br>since Monday")
	assert.Contains(t, out, "Call Jane Citizen Now")
	assert.NotContains(t, out, "No message provided")
}

func TestBusinessNotification_Defaults(t *testing.T) {
	r := newRenderer(t)

	out, err := r.BusinessNotification(View{Name: "Jane", Email: "jane@example.com", Phone: "0412345678"})
	require.NoError(t, err)

	assert.Contains(t, out, "<em>No message provided</em>")
	assert.Equal(t, 2, strings.Count(out, "Not specified"))
}

func TestBusinessNotification_EscapesUserInput(t *testing.T) {
	r := newRenderer(t)

	out, err := r.BusinessNotification(View{
		Name:    `<script>alert(1)</script>`,
		Email:   "jane@example.com",
		Phone:   "0412345678",
		Message: "<b>bold</b>\nline",
	})
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt;<br>line")
}

func TestCustomerConfirmation(t *testing.T) {
	r := newRenderer(t)

	out, err := r.CustomerConfirmation(View{
		Name:    "Jane Citizen",
		Email:   "jane@example.com",
		Phone:   "0412345678",
		Service: "Gas Fitting",
		Message: "Please call after 5",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Thanks for your enquiry, Jane!")
	assert.Contains(t, out, "Gas Fitting")
	assert.Contains(t, out, "Your Message:")
	assert.Contains(t, out, "Please call after 5")
	assert.Contains(t, out, "0400 000 000")
	assert.Contains(t, out, "info@ramzaiplumbing.com.au")
}

func TestCustomerConfirmation_NoMessage(t *testing.T) {
	r := newRenderer(t)

	out, err := r.CustomerConfirmation(View{Name: "Jane", Email: "jane@example.com", Phone: "0412345678"})
	require.NoError(t, err)

	assert.NotContains(t, out, "Your Message:")
	assert.Contains(t, out, "<strong>Suburb:</strong> Not specified")
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Jane", View{Name: "Jane Citizen"}.FirstName())
	assert.Equal(t, "Jane", View{Name: "Jane"}.FirstName())
	assert.Equal(t, "", View{Name: ""}.FirstName())
}
