package dto

// IngestResult resultado de aplicar un lote al almacén de inventario.
// Processed cuenta solo las escrituras confirmadas; Failed las rechazadas por el almacén.
type IngestResult struct {
	BatchID   string `json:"batch_id"`
	Source    string `json:"source,omitempty"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
}

// UploadEventResult respuesta de una notificación de carga con uno o más objetos.
type UploadEventResult struct {
	Status    string         `json:"status"`
	Processed int            `json:"processed"`
	Failed    int            `json:"failed"`
	Objects   []IngestResult `json:"objects"`
}

// S3EventNotification notificación de creación de objeto (formato de eventos S3).
type S3EventNotification struct {
	Records []S3EventRecord `json:"Records"`
}

// S3EventRecord un objeto creado dentro de la notificación.
type S3EventRecord struct {
	EventName string   `json:"eventName"`
	S3        S3Entity `json:"s3"`
}

// S3Entity referencia bucket/objeto.
type S3Entity struct {
	Bucket struct {
		Name string `json:"name"`
	} `json:"bucket"`
	Object struct {
		Key  string `json:"key"`
		Size int64  `json:"size"`
	} `json:"object"`
}
