package main

import (
	"github.com/shraddha-r0/financial-rag-graph/internal/infrastructure/cli"
)

func main() {
	cli.Execute()
}
