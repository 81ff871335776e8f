package models

// Response тело ответа эндпоинта контактной формы.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
