package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/fintrack-app/backend/internal/auth"
	"github.com/fintrack-app/backend/internal/httpapi"
	"github.com/fintrack-app/backend/internal/service"
	"github.com/fintrack-app/backend/internal/store"
)

func main() {
	// Load .env when present; env vars win over file values.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8111"
	}

	ctx := context.Background()

	// Determine if we're running locally
	useMemoryStore := os.Getenv("USE_MEMORY_STORE") == "true" || os.Getenv("ENV") == "local"

	var storeImpl store.Store
	var devUserID string

	if useMemoryStore {
		log.Println("Using in-memory store for local development")
		storeImpl = store.NewMemoryStore()

		// Without a gateway in front there is no forwarded identity, so
		// requests fall back to a fixed dev user.
		devUserID = os.Getenv("DEV_USER_ID")
		if devUserID == "" {
			devUserID = "00000000-0000-0000-0000-000000000001"
		}
		log.Printf("Using dev identity fallback: %s", devUserID)
	} else {
		projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
		if projectID == "" {
			log.Fatalf("GOOGLE_CLOUD_PROJECT must be set when not using the memory store")
		}

		firestoreClient, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		storeImpl = store.NewFirestoreStore(firestoreClient)
	}

	taxService := service.NewTaxService(storeImpl)
	apiHandler := httpapi.NewHandler(taxService)

	apiMux := http.NewServeMux()
	apiHandler.Register(apiMux)

	// Identity is established at the gateway; only API routes need it.
	mux := http.NewServeMux()
	mux.Handle("/api/", auth.Middleware(devUserID)(apiMux))

	// Add health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Set up CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:4200", // Local frontend
			"http://127.0.0.1:4200", // Alternative local
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
			"X-User-Id",
			"X-User-Email",
		},
		AllowCredentials: true,
	})

	// Wrap handler with CORS
	handler := c.Handler(mux)

	// Create HTTP/2 server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	log.Printf("Starting server on port %s", port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
