package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"miticaje.com/miticaje/security"
)

func main() {
	godotenv.Load()

	deviceID := flag.String("device", "", "device id for the token")
	workCenter := flag.String("work-center", "", "work center the device belongs to")
	role := flag.String("role", "device", "token role (device or admin)")
	expires := flag.Int64("expires", 86400*365, "token lifetime in seconds")
	flag.Parse()

	if *deviceID == "" {
		log.Fatal("-device is required")
	}

	secret := os.Getenv("MITICAJE_SIGNING_SECRET")
	if secret == "" {
		log.Fatal("MITICAJE_SIGNING_SECRET is required")
	}

	token, err := security.CreateIdentityToken(&security.DeviceIdentity{
		DeviceID:     *deviceID,
		WorkCenterID: *workCenter,
		Role:         *role,
	}, secret, *expires)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}
