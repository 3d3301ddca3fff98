package main

import (
	"bookinglink/core/logger"
	"bookinglink/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
