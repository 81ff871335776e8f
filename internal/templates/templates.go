// Package templates рендерит HTML-письма по заявке.
// Пользовательский текст экранируется (autoescape pongo2).
package templates

import (
	"embed"
	"fmt"
	"html"
	"strings"

	"github.com/flosch/pongo2/v6"
)

//go:embed html/*.html
var files embed.FS

const notSpecified = "Not specified"

// Brand реквизиты бизнеса, которые попадают в письма.
type Brand struct {
	Name         string
	PhoneDisplay string
	PhoneLink    string
	ContactEmail string
}

// DefaultBrand реквизиты по умолчанию.
var DefaultBrand = Brand{
	Name:         "Ramzai Plumbing",
	PhoneDisplay: "0400 000 000",
	PhoneLink:    "0400000000",
	ContactEmail: "info@ramzaiplumbing.com.au",
}

// View данные заявки для подстановки в шаблоны.
type View struct {
	Name    string
	Email   string
	Phone   string
	Suburb  string
	Service string
	Message string
}

// FirstName первое слово имени.
func (v View) FirstName() string {
	name, _, _ := strings.Cut(v.Name, " ")
	return name
}

// Renderer держит разобранные шаблоны. Безопасен для конкурентного использования.
type Renderer struct {
	brand    Brand
	business *pongo2.Template
	customer *pongo2.Template
}

func init() {
	if !pongo2.FilterExists("nl2br") {
		pongo2.RegisterFilter("nl2br", filterNL2BR)
	}
}

// filterNL2BR экранирует текст и заменяет переводы строк на <br>.
func filterNL2BR(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	escaped := html.EscapeString(in.String())
	return pongo2.AsSafeValue(strings.ReplaceAll(escaped, "\n", "<br>")), nil
}

// NewRenderer разбирает встроенные шаблоны.
func NewRenderer(brand Brand) (*Renderer, error) {
	business, err := parse("html/business_notification.html")
	if err != nil {
		return nil, err
	}
	customer, err := parse("html/customer_confirmation.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{brand: brand, business: business, customer: customer}, nil
}

func parse(name string) (*pongo2.Template, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	tpl, err := pongo2.FromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tpl, nil
}

// BusinessNotification письмо владельцу бизнеса о новой заявке.
func (r *Renderer) BusinessNotification(v View) (string, error) {
	out, err := r.business.Execute(r.context(v))
	if err != nil {
		return "", fmt.Errorf("render business notification: %w", err)
	}
	return out, nil
}

// CustomerConfirmation письмо-подтверждение клиенту.
func (r *Renderer) CustomerConfirmation(v View) (string, error) {
	out, err := r.customer.Execute(r.context(v))
	if err != nil {
		return "", fmt.Errorf("render customer confirmation: %w", err)
	}
	return out, nil
}

func (r *Renderer) context(v View) pongo2.Context {
	return pongo2.Context{
		"name":          v.Name,
		"first_name":    v.FirstName(),
		"email":         v.Email,
		"phone":         v.Phone,
		"suburb":        orDefault(v.Suburb),
		"service":       orDefault(v.Service),
		"message":       v.Message,
		"business":      r.brand.Name,
		"phone_display": r.brand.PhoneDisplay,
		"phone_link":    r.brand.PhoneLink,
		"contact_email": r.brand.ContactEmail,
	}
}

func orDefault(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}
