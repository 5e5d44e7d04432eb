package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayfare/cart"
	"wayfare/mq"
	"wayfare/planner"
	"wayfare/push"
	"wayfare/ratelim"
	"wayfare/routes"
	"wayfare/timeline"
	"wayfare/wallet"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// XSS, content sniffing, framing
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		// HSTS (must be on HTTPS)
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		// Referrer and permissions
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		// Prevent caching
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// setupRouter builds the router with all routes except the push endpoint.
// The push routes are added separately in main to avoid passing hub around globally.
func setupRouter(sessions *planner.Sessions, rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddPlannerRoutes(router, planner.NewHandler(sessions), rateLimiter)
	routes.AddCartRoutes(router, cart.NewHandler(sessions), rateLimiter)
	routes.AddTimelineRoutes(router, timeline.NewHandler(sessions), rateLimiter)
	routes.AddWalletRoutes(router, wallet.NewService(), rateLimiter)
	routes.AddServiceRoutes(router, rateLimiter)
	routes.AddNotificationRoutes(router)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	// read port
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	// initialize rate limiter
	rateLimiter := ratelim.NewRateLimiter()

	// per-user planner stores backed by Mongo, with Redis snapshots
	sessions := planner.NewSessions(planner.NewMongoRepository(), planner.NewRedisSnapshots())

	// initialize push hub
	hub := push.NewHub()
	go hub.Run()

	// fan committed planner state out through Redis so every node's hub
	// sees it, then down to the user's open sessions
	sessions.OnCommit(func(userID string, ev planner.Event) {
		p := ev.Planner
		mq.Emit(context.Background(), mq.PlannerEvent{
			UserID:    userID,
			PlannerID: p.PlannerID,
			Action:    ev.Action,
			Planner:   &p,
		})
	})
	subCtx, subCancel := context.WithCancel(context.Background())
	mq.Subscribe(subCtx, func(ev mq.PlannerEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		hub.Broadcast(ev.UserID, data)
	})

	// build router and add push routes with hub
	router := setupRouter(sessions, rateLimiter)
	routes.AddPushRoutes(router, hub)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	// create HTTP server
	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// on shutdown: stop push hub and the event subscriber
	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down push hub...")
		subCancel()
		hub.Stop()
	})

	// start server
	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	// initiate graceful shutdown
	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
