package app

const (
	ServiceName = "school-service"
	Version     = "1.0.0"
)
