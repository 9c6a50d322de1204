package main

import (
	"os"
	"strconv"

	"miticaje.com/miticaje/geo"
)

// platformProvider picks the location source for this terminal. Fixed
// installs configure KIOSK_LAT/KIOSK_LON; without them the kiosk punches
// without location data.
func platformProvider() geo.Provider {
	latStr := os.Getenv("KIOSK_LAT")
	lonStr := os.Getenv("KIOSK_LON")
	if latStr == "" || lonStr == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil
	}

	accuracy := 10.0
	if accStr := os.Getenv("KIOSK_ACCURACY"); accStr != "" {
		if acc, err := strconv.ParseFloat(accStr, 64); err == nil {
			accuracy = acc
		}
	}

	return geo.NewStaticProvider(lat, lon, accuracy)
}
