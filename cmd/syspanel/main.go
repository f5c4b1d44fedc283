package main

import (
	"github.com/syspanel/syspanel/internal/cli"
)

func main() {
	cli.Execute()
}
