package configuration

import (
	"log/slog"

	"github.com/adampresley/configinator"
	"github.com/joho/godotenv"
)

type Config struct {
	AwsEndpointUrl          string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion               string `flag:"awsregion" env:"AWS_REGION" default:"us-east-1" description:"AWS region"`
	AwsAccessKeyId          string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey      string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket               string `flag:"awsbucket" env:"AWS_BUCKET" default:"imagegallery" description:"S3 bucket for thumbnails"`
	BackendURL              string `flag:"backend" env:"BACKEND_URL" default:"http://localhost:8080/gallery/" description:"Base URL of the gallery server the JSON API is forwarded to"`
	DSN                     string `flag:"dsn" env:"DSN" default:"file:./data/imagegallery.db" description:"Data source name"`
	Host                    string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	LogLevel                string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxThumbnailWorkers     int    `flag:"mtw" env:"MAX_THUMBNAIL_WORKERS" default:"4" description:"Maximum number of concurrent thumbnail workers when prewarming"`
	PrewarmThumbnails       bool   `flag:"prewarm" env:"PREWARM_THUMBNAILS" default:"true" description:"Ask the server to prepare the next album page's thumbnails"`
	ThumbnailExpirationDays int    `flag:"tex" env:"THUMBNAIL_EXPIRATION_DAYS" default:"30" description:"Number of days before a cached thumbnail is removed"`
	ThumbnailFolder         string `flag:"tf" env:"THUMBNAIL_FOLDER" default:"thumbnails" description:"S3 folder for cached thumbnails"`
}

/*
LoadConfig reads a .env file when one is present, then flags and the
environment.
*/
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	config := Config{}
	configinator.Behold(&config)
	return config
}
