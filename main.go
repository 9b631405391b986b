package main

import (
	"context"
	"time"

	"github.com/AAnishRam/medical-data-processing/internal/app"
)

// running simulations are cancelled on shutdown, so this only bounds the HTTP drain
const shutdownTimeout = 10 * time.Second

func main() {
	application := app.New()
	wait := application.Start()
	<-wait

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	application.Stop(ctx)
}
