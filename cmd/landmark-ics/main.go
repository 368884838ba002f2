package main

import "github.com/pfrederiksen/landmark-ics/internal/cli"

func main() {
	cli.Execute()
}
