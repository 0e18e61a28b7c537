package entity

import "time"

// LowStockSubject asunto fijo de las alertas de stock bajo.
const LowStockSubject = "Low stock alert"

// NotificationEvent alerta de stock bajo publicada en el canal fan-out.
type NotificationEvent struct {
	ID        string
	Store     string
	Item      string
	Count     int64
	Subject   string
	Body      string
	CreatedAt time.Time
}
