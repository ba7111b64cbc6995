package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpguard/internal/app"
)

// @title           OTP Guard API
// @version         1.0
// @description     OTP Guard issues and verifies one-time codes with throttling and lockout.
// @termsOfService  https://otpguard.dev/terms
// @contact.name    Contact Support
// @contact.url     https://otpguard.dev/contact
// @contact.email   support@otpguard.dev
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
