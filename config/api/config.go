package config

import "github.com/ilyakaznacheev/cleanenv"

type Config struct {
	Port          int           `env:"PORT" env-default:"8080"`
	LogJSON       bool          `env:"LOG_JSON" env-default:"false"`
	WebhookSecret string        `env:"TEAMS_WEBHOOK_SECRET"`
	Transcription Transcription `env-prefix:"ASSEMBLYAI_"`
	Summary       Summary       `env-prefix:"SUMMARY_"`
	Storage       Storage       `env-prefix:"STORAGE_"`
}

type Transcription struct {
	APIKey       string `env:"API_KEY"`
	PollInterval int    `env:"POLL_INTERVAL_SECONDS" env-default:"3"`
	PollTimeout  int    `env:"POLL_TIMEOUT_SECONDS" env-default:"600"`
}

type Summary struct {
	Provider string `env:"PROVIDER" env-default:"anthropic"`
	Model    string `env:"MODEL" env-default:"claude-sonnet-4-20250514"`
	APIKey   string `env:"API_KEY"`
}

type Storage struct {
	Backend          string `env:"BACKEND" env-default:"local"`
	UploadExpiration int    `env:"UPLOAD_URL_EXPIRATION" env-default:"3600"`
	LocalDir         string `env:"LOCAL_DIR" env-default:"uploads"`
	S3Bucket         string `env:"S3_BUCKET_NAME"`
	AWSRegion        string `env:"AWS_REGION" env-default:"us-east-1"`
	AWSAccessKeyID   string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey     string `env:"AWS_SECRET_ACCESS_KEY"`
	AzureAccount     string `env:"AZURE_ACCOUNT_NAME"`
	AzureKey         string `env:"AZURE_ACCOUNT_KEY"`
	AzureContainer   string `env:"AZURE_CONTAINER_NAME" env-default:"vaultscribe-recordings"`
}

func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read environment variables: " + err.Error())
	}
	return &cfg
}
