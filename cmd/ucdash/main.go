package main

import (
	"github.com/mchmarny/ucdash/pkg/cli"
)

func main() {
	cli.Execute()
}
