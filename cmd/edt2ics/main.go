package main

import (
	_ "time/tzdata"

	"github.com/pfrederiksen/edt2ics/internal/cli"
)

func main() {
	cli.Execute()
}
