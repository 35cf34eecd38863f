package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageTypeFile = "file"
	StorageTypeS3   = "s3"

	AnnotatorNative = "native"
	AnnotatorOpenCV = "opencv"
)

type Config struct {
	BindAddress string
	TLSDomains  string // e.g. "example.com,example2.com"
	DebugMode   bool
	CORSOrigins []string

	MySQLDSN   string // MySQL will be used if this is set
	SQLiteFile string // SQLite will be used if MySQLDSN is not configured

	StorageType     string
	StoragePath     string // Directory on disk, or key prefix in the S3 bucket
	UploadFolder    string
	ProcessedFolder string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string // Custom endpoint for S3 compatible services (MinIO, etc)
	S3AccessKey     string
	S3SecretKey     string

	ModelsDir   string  // dlib models: shape_predictor_5_face_landmarks.dat, dlib_face_recognition_resnet_model_v1.dat, mmod_human_face_detector.dat
	DetectCNN   bool    // Use Convolutional Neural Network for face detection (as opposed to HOG). Much slower, more accurate at different angles
	Tolerance   float64 // Max euclidean distance between two descriptors of the same person
	Annotator   string
	JPEGQuality int
	MaxUploadMB int

	LogLevel string
	LogFile  string
}

// Default returns the configuration used when no environment overrides are present
func Default() *Config {
	return &Config{
		BindAddress:     "0.0.0.0:8000",
		CORSOrigins:     []string{"http://localhost:3000"},
		SQLiteFile:      "faces.db",
		StorageType:     StorageTypeFile,
		StoragePath:     "images",
		UploadFolder:    "uploads",
		ProcessedFolder: "processed",
		S3Region:        "us-east-1",
		ModelsDir:       "models",
		Tolerance:       0.5,
		Annotator:       AnnotatorNative,
		JPEGQuality:     90,
		MaxUploadMB:     32,
		LogLevel:        "info",
	}
}

// Load reads an optional .env file and then the environment on top of the defaults
func Load() *Config {
	// .env file is optional
	_ = godotenv.Load()

	c := Default()
	readEnvString("BIND_ADDRESS", &c.BindAddress)
	readEnvString("TLS_DOMAINS", &c.TLSDomains)
	readEnvBool("DEBUG_MODE", &c.DebugMode)
	readEnvList("CORS_ORIGINS", &c.CORSOrigins)
	readEnvString("MYSQL_DSN", &c.MySQLDSN)
	readEnvString("SQLITE_FILE", &c.SQLiteFile)
	readEnvString("STORAGE_TYPE", &c.StorageType)
	readEnvString("STORAGE_PATH", &c.StoragePath)
	readEnvString("UPLOAD_FOLDER", &c.UploadFolder)
	readEnvString("PROCESSED_FOLDER", &c.ProcessedFolder)
	readEnvString("S3_BUCKET", &c.S3Bucket)
	readEnvString("S3_REGION", &c.S3Region)
	readEnvString("S3_ENDPOINT", &c.S3Endpoint)
	readEnvString("S3_ACCESS_KEY", &c.S3AccessKey)
	readEnvString("S3_SECRET_KEY", &c.S3SecretKey)
	readEnvString("FACE_MODELS_DIR", &c.ModelsDir)
	readEnvBool("FACE_DETECT_CNN", &c.DetectCNN)
	readEnvFloat("FACE_TOLERANCE", &c.Tolerance)
	readEnvString("ANNOTATOR", &c.Annotator)
	readEnvInt("JPEG_QUALITY", &c.JPEGQuality)
	readEnvInt("MAX_UPLOAD_MB", &c.MaxUploadMB)
	readEnvString("LOG_LEVEL", &c.LogLevel)
	readEnvString("LOG_FILE", &c.LogFile)
	return c
}

func (c *Config) Validate() error {
	if c.Tolerance <= 0 {
		return fmt.Errorf("FACE_TOLERANCE must be positive, got %v", c.Tolerance)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be within 1..100, got %d", c.JPEGQuality)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	switch c.StorageType {
	case StorageTypeFile:
	case StorageTypeS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for storage type %q", c.StorageType)
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	if c.Annotator != AnnotatorNative && c.Annotator != AnnotatorOpenCV {
		return fmt.Errorf("unknown ANNOTATOR %q", c.Annotator)
	}
	return nil
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvList(name string, value *[]string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	result := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	*value = result
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
