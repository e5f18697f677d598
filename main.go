package main

import (
	"github.com/printforge/storefront/cmd"
)

func main() {
	cmd.Start()
}
