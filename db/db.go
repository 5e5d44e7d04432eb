package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	PlannersCollection      *mongo.Collection
	ServicesCollection      *mongo.Collection
	AccountsCollection      *mongo.Collection
	TransactionCollection   *mongo.Collection
	NotificationsCollection *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("traveldb")
	PlannersCollection = database.Collection("planners")
	ServicesCollection = database.Collection("services")
	AccountsCollection = database.Collection("accounts")
	TransactionCollection = database.Collection("transactions")
	NotificationsCollection = database.Collection("notifications")
}
