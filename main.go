package main

import (
	"log"
	"os"

	"frafos.com/kbsearch/cmd"
)

func main() {
	log.SetOutput(os.Stderr)
	cmd.Execute()
}
