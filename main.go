package main

import (
	"log"

	"yashubustudio/cityresolver/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("cityresolver: %v", err)
	}
}
