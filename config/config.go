package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	MongoURI  string
	MongoDB   string
	Port      string
	JWTSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	GeminiAPIKey string

	AWSRegion     string
	AWSBucketName string

	PaymentBaseURL       string
	PaymentKeyID         string
	PaymentKeySecret     string
	PaymentWebhookSecret string

	OrderWebhookURL string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017/"
	}

	MongoDB = os.Getenv("MONGO_DB")
	if MongoDB == "" {
		MongoDB = "threadora"
	}

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	JWTSecret = os.Getenv("JWT_SECRET")

	GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	if GoogleRedirectURL == "" {
		GoogleRedirectURL = "http://localhost:8080/auth/google/callback"
	}

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	AWSRegion = os.Getenv("AWS_REGION")
	if AWSRegion == "" {
		AWSRegion = "ap-south-1"
	}
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	PaymentBaseURL = os.Getenv("PAYMENT_BASE_URL")
	if PaymentBaseURL == "" {
		PaymentBaseURL = "https://api.razorpay.com"
	}
	PaymentKeyID = os.Getenv("PAYMENT_KEY_ID")
	PaymentKeySecret = os.Getenv("PAYMENT_KEY_SECRET")
	PaymentWebhookSecret = os.Getenv("PAYMENT_WEBHOOK_SECRET")

	OrderWebhookURL = os.Getenv("ORDER_WEBHOOK_URL")
}
