package entities

const (
	FieldID        = "id"
	FieldStartedAt = "startedAt"
)

type Document map[string]any
