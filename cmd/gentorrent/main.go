package main

import (
	"log"

	"gentorrent/cmd/gentorrent/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
