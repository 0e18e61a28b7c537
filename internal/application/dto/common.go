package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// StatusResponse respuesta mínima de operaciones sin cuerpo propio.
type StatusResponse struct {
	Status string `json:"status"`
}
