package config

import (
	"os"
	"strings"
)

// Config holds everything the server reads from the environment. The log
// file is the only required resource; Mongo, Redis, Drive and Gemini are
// all optional and degrade gracefully when absent.
type Config struct {
	HTTPPort string

	// DataFile is the append-only observation log (JSON lines).
	DataFile string

	// Roster and Tags are injected enumerations; empty means built-in
	// defaults.
	Roster []string
	Tags   []string

	// MongoURI enables the local attachment blob store when set.
	MongoURI string

	// RedisURI enables the Redis session store when set; otherwise session
	// state is kept in process memory.
	RedisURI string

	// PublicBaseURL is the address attachment links are minted under when
	// the Mongo blob store serves them.
	PublicBaseURL string

	Drive DriveConfig
}

// DriveConfig configures the cloud-drive attachment sink. Uploads are
// silently skipped unless both FolderID and AccessToken are present.
type DriveConfig struct {
	FolderID    string
	AccessToken string
	UploadURL   string
}

// Configured reports whether the Drive sink can be used.
func (d DriveConfig) Configured() bool {
	return d.FolderID != "" && d.AccessToken != ""
}

func Load() *Config {
	port := getEnv("PORT", "8080")
	return &Config{
		HTTPPort:      port,
		DataFile:      getEnv("DATA_FILE", "observations.jsonl"),
		Roster:        splitList(os.Getenv("ROSTER")),
		Tags:          splitList(os.Getenv("TAGS")),
		MongoURI:      os.Getenv("MONGO_URI"),
		RedisURI:      strings.TrimPrefix(os.Getenv("REDIS_URI"), "redis://"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		Drive: DriveConfig{
			FolderID:    os.Getenv("DRIVE_FOLDER_ID"),
			AccessToken: os.Getenv("DRIVE_ACCESS_TOKEN"),
			UploadURL:   getEnv("DRIVE_UPLOAD_URL", "https://www.googleapis.com/upload/drive/v3/files"),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// splitList parses a comma-separated env list, trimming entries and
// dropping empty ones.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
