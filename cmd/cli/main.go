package main

import (
	"context"
	"flag"
	"log"

	"github.com/mlevkov/authd/internal/cli"
)

func main() {

	serverAddr := flag.String("s", "http://localhost:8080", "authd server base URL")
	flag.Parse()

	ctx := context.Background()
	app, err := cli.NewApp(*serverAddr)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
