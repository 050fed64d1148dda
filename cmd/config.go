package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	// RabbitURL enables the external event mirror when non-empty.
	RabbitURL string
}
